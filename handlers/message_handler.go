package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/antispam"
	"modbot/bot"
	"modbot/moderation"
	"modbot/utils"
)

// HandleMessageCreate runs the sticky repost and the anti-spam gate for
// every non-bot guild message.
func HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate, b *bot.Bot) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	repostSticky(s, m, b)

	if !b.Flags.AntiSpamEnabled(m.GuildID) {
		return
	}
	if b.Limiter.Record(m.Author.ID, time.Now()) != antispam.ActionPenalize {
		return
	}

	muteDuration := time.Duration(b.Config.AntiSpam.MuteSeconds) * time.Second
	reason := fmt.Sprintf("sent %d messages within %dms", b.Config.AntiSpam.Limit, b.Config.AntiSpam.WindowMs)
	err := moderation.Timeout(s, b.ModLogs, m.GuildID, m.Author.ID, s.State.User.ID, muteDuration, reason)
	if err != nil {
		// Member may have left or the bot may lack permission; log and
		// move on, no retry.
		log.Printf("Failed to apply spam timeout to %s in guild %s: %v", m.Author.ID, m.GuildID, err)
		utils.LogWarn(s, b.Config.LogChannelID, "AntiSpam", "Timeout failed",
			fmt.Sprintf("user %s in guild %s: %v", m.Author.ID, m.GuildID, err))
		return
	}

	notice := fmt.Sprintf("🔇 %s has been timed out for %s: %s", m.Author.Mention(), muteDuration, reason)
	if _, err := s.ChannelMessageSend(m.ChannelID, notice); err != nil {
		log.Printf("Failed to send timeout notice: %v", err)
	}
	utils.LogInfo(s, b.Config.LogChannelID, "AntiSpam", "Timeout",
		fmt.Sprintf("user %s in guild %s for %s", m.Author.ID, m.GuildID, muteDuration))
}

// repostSticky keeps the configured sticky message at the bottom of its
// channel: delete the previous copy, post a fresh one, remember its id.
func repostSticky(s *discordgo.Session, m *discordgo.MessageCreate, b *bot.Bot) {
	sticky, err := b.Flags.Sticky(m.ChannelID)
	if err != nil {
		log.Printf("Failed to load sticky config for channel %s: %v", m.ChannelID, err)
		return
	}
	if sticky == nil {
		return
	}

	if sticky.LastMessageID != "" {
		if err := s.ChannelMessageDelete(sticky.ChannelID, sticky.LastMessageID); err != nil {
			// Already gone is fine; anything else is logged and ignored.
			log.Printf("Failed to delete previous sticky message %s: %v", sticky.LastMessageID, err)
		}
	}

	msg, err := s.ChannelMessageSend(sticky.ChannelID, sticky.Body)
	if err != nil {
		log.Printf("Failed to repost sticky message in channel %s: %v", sticky.ChannelID, err)
		return
	}
	if err := b.Flags.UpdateStickyMessageID(sticky.GuildID, sticky.ChannelID, msg.ID); err != nil {
		log.Printf("Failed to record sticky message id: %v", err)
	}
}
