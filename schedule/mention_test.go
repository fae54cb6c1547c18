package schedule

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestResolveMentions(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "1", Name: "Movie Fans"},
		{ID: "2", Name: "Staff"},
	}

	tests := []struct {
		name string
		spec string
		want []string
	}{
		{"empty spec", "", nil},
		{"everyone token", "everyone", []string{"@everyone"}},
		{"here token", "HERE", []string{"@here"}},
		{"role by name case-insensitive", "movie fans", []string{"<@&1>"}},
		{"mixed list", "everyone, Staff", []string{"@everyone", "<@&2>"}},
		{"unknown roles silently skipped", "Nobody, Staff", []string{"<@&2>"}},
		{"whitespace and empties", " , Staff , ", []string{"<@&2>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMentions(tt.spec, roles))
		})
	}
}

func TestKindColor(t *testing.T) {
	for kind, want := range map[string]int{
		KindInfo:    0x3498DB,
		KindWarning: 0xE67E22,
		KindAlert:   0xE74C3C,
		KindSuccess: 0x2ECC71,
	} {
		got, ok := KindColor(kind)
		assert.True(t, ok, kind)
		assert.Equal(t, want, got, kind)
	}

	got, ok := KindColor("Warning")
	assert.True(t, ok, "kinds match case-insensitively")
	assert.Equal(t, 0xE67E22, got)

	_, ok = KindColor("loud")
	assert.False(t, ok)
}

func TestBuildMessage(t *testing.T) {
	got := BuildMessage("Movie night", "Film noir", []string{"@everyone"})
	assert.Equal(t, "@everyone\n📅 **Movie night**\nFilm noir", got)

	got = BuildMessage("Movie night", "", nil)
	assert.Equal(t, "📅 **Movie night**", got)
}
