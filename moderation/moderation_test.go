package moderation

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modbot/model"
)

func newTestLogStore(t *testing.T) *LogStore {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store, err := NewLogStore(db)
	require.NoError(t, err)
	return store
}

type fakeTimeoutSession struct {
	calls int
	until *time.Time
	err   error
}

func (f *fakeTimeoutSession) GuildMemberTimeout(guildID, userID string, until *time.Time, options ...discordgo.RequestOption) error {
	f.calls++
	f.until = until
	return f.err
}

func TestTimeout_RecordsModLog(t *testing.T) {
	logs := newTestLogStore(t)
	session := &fakeTimeoutSession{}

	err := Timeout(session, logs, "g1", "u1", "bot", time.Hour, "spam limit exceeded")
	require.NoError(t, err)
	assert.Equal(t, 1, session.calls)
	require.NotNil(t, session.until)
	assert.True(t, session.until.After(time.Now().Add(59*time.Minute)))

	entries, err := logs.Recent("g1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionTimeout, entries[0].Action)
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, "spam limit exceeded", entries[0].Reason)
}

func TestTimeout_FailureWritesNoLog(t *testing.T) {
	logs := newTestLogStore(t)
	session := &fakeTimeoutSession{err: errors.New("missing permission")}

	err := Timeout(session, logs, "g1", "u1", "bot", time.Hour, "spam")
	require.Error(t, err)

	entries, err := logs.Recent("g1", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLogStore_RecentNewestFirst(t *testing.T) {
	logs := newTestLogStore(t)
	for _, reason := range []string{"first", "second", "third"} {
		require.NoError(t, logs.Add(model.ModLog{
			GuildID: "g1", UserID: "u1", ModeratorID: "m1",
			Action: ActionTimeout, Reason: reason,
		}))
	}

	entries, err := logs.Recent("g1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].Reason)
	assert.Equal(t, "second", entries[1].Reason)
}

type fakeChannelSession struct {
	channels []*discordgo.Channel
	failOn   map[string]error
	set      []string
	deleted  []string
}

func (f *fakeChannelSession) GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	return f.channels, nil
}

func (f *fakeChannelSession) ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error {
	if err := f.failOn[channelID]; err != nil {
		return err
	}
	f.set = append(f.set, channelID)
	return nil
}

func (f *fakeChannelSession) ChannelPermissionDelete(channelID, targetID string, options ...discordgo.RequestOption) error {
	if err := f.failOn[channelID]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, channelID)
	return nil
}

func TestSetLockdown_PerChannelResults(t *testing.T) {
	session := &fakeChannelSession{
		channels: []*discordgo.Channel{
			{ID: "c1", Name: "general", Type: discordgo.ChannelTypeGuildText},
			{ID: "c2", Name: "voice", Type: discordgo.ChannelTypeGuildVoice},
			{ID: "c3", Name: "rules", Type: discordgo.ChannelTypeGuildText},
		},
		failOn: map[string]error{"c3": errors.New("missing access")},
	}

	results, err := SetLockdown(session, "g1", true)
	require.NoError(t, err)
	require.Len(t, results, 2, "voice channels are skipped")
	assert.Equal(t, 1, Succeeded(results))
	assert.Equal(t, []string{"c1"}, session.set)

	var failed *ChannelResult
	for i := range results {
		if results[i].Err != nil {
			failed = &results[i]
		}
	}
	require.NotNil(t, failed, "the failing channel is reported, not dropped")
	assert.Equal(t, "c3", failed.ChannelID)
}

func TestSetLockdown_UnlockDeletesOverwrites(t *testing.T) {
	session := &fakeChannelSession{
		channels: []*discordgo.Channel{
			{ID: "c1", Name: "general", Type: discordgo.ChannelTypeGuildText},
		},
	}

	results, err := SetLockdown(session, "g1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, Succeeded(results))
	assert.Equal(t, []string{"c1"}, session.deleted)
}
