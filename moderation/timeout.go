package moderation

import (
	"fmt"
	"modbot/model"
	"time"

	"github.com/bwmarrin/discordgo"
)

// TimeoutSession is the slice of the gateway session needed to suspend
// a member. *discordgo.Session satisfies it.
type TimeoutSession interface {
	GuildMemberTimeout(guildID, userID string, until *time.Time, options ...discordgo.RequestOption) error
}

// Timeout suspends a member's communication for the given duration and
// records the action. The caller decides what to do with a failure; the
// mod log row is only written when the suspension landed.
func Timeout(s TimeoutSession, logs *LogStore, guildID, userID, moderatorID string, d time.Duration, reason string) error {
	until := time.Now().Add(d)
	if err := s.GuildMemberTimeout(guildID, userID, &until); err != nil {
		return fmt.Errorf("failed to timeout user %s: %w", userID, err)
	}
	if err := logs.Add(model.ModLog{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Action:      ActionTimeout,
		Reason:      reason,
	}); err != nil {
		return err
	}
	return nil
}
