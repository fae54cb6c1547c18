package moderation

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// ChannelSession is the slice of the gateway session needed to edit
// channel permissions. *discordgo.Session satisfies it.
type ChannelSession interface {
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error
	ChannelPermissionDelete(channelID, targetID string, options ...discordgo.RequestOption) error
}

// ChannelResult is the per-channel outcome of a bulk permission edit.
// Callers report partial completion counts instead of silently dropping
// failures.
type ChannelResult struct {
	ChannelID   string
	ChannelName string
	Err         error
}

// Succeeded counts the successful edits in a result list.
func Succeeded(results []ChannelResult) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// SetLockdown denies (or restores) SendMessages for @everyone on each
// text channel in the guild. Every channel is attempted regardless of
// earlier failures, and each gets its own result entry.
func SetLockdown(s ChannelSession, guildID string, active bool) ([]ChannelResult, error) {
	channels, err := s.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels for guild %s: %w", guildID, err)
	}

	var results []ChannelResult
	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		res := ChannelResult{ChannelID: ch.ID, ChannelName: ch.Name}
		if active {
			// The @everyone role shares the guild's id.
			res.Err = s.ChannelPermissionSet(ch.ID, guildID, discordgo.PermissionOverwriteTypeRole,
				0, discordgo.PermissionSendMessages)
		} else {
			res.Err = s.ChannelPermissionDelete(ch.ID, guildID)
		}
		results = append(results, res)
	}
	return results, nil
}
