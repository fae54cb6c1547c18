package schedule

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ResolveMentions turns a comma-separated ping spec into mention
// strings. "everyone" and "here" are broadcast tokens; anything else is
// matched case-insensitively against the guild's role names. Names that
// resolve to nothing are skipped without complaint.
func ResolveMentions(spec string, roles []*discordgo.Role) []string {
	if spec == "" {
		return nil
	}

	var mentions []string
	for _, raw := range strings.Split(spec, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		switch strings.ToLower(name) {
		case "everyone":
			mentions = append(mentions, "@everyone")
			continue
		case "here":
			mentions = append(mentions, "@here")
			continue
		}
		for _, role := range roles {
			if strings.EqualFold(role.Name, name) {
				mentions = append(mentions, role.Mention())
				break
			}
		}
	}
	return mentions
}

// Announcement kinds selectable on immediate announcements.
const (
	KindInfo    = "info"
	KindWarning = "warning"
	KindAlert   = "alert"
	KindSuccess = "success"
)

// KindColor maps an announcement kind to its embed color. The second
// return is false for unknown kinds.
func KindColor(kind string) (int, bool) {
	switch strings.ToLower(kind) {
	case KindInfo:
		return 0x3498DB, true
	case KindWarning:
		return 0xE67E22, true
	case KindAlert:
		return 0xE74C3C, true
	case KindSuccess:
		return 0x2ECC71, true
	}
	return 0, false
}

// BuildMessage formats the announcement body for one job.
func BuildMessage(title, theme string, mentions []string) string {
	var b strings.Builder
	if len(mentions) > 0 {
		b.WriteString(strings.Join(mentions, " "))
		b.WriteString("\n")
	}
	b.WriteString("📅 **")
	b.WriteString(title)
	b.WriteString("**")
	if theme != "" {
		b.WriteString("\n")
		b.WriteString(theme)
	}
	return b.String()
}
