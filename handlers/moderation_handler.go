package handlers

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/bot"
	"modbot/moderation"
	"modbot/utils"
)

// Discord rejects timeouts past this horizon.
const maxTimeout = 28 * 24 * time.Hour

// HandleTimeout suspends a member on a moderator's request and records
// the action in the mod log.
func HandleTimeout(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i.ApplicationCommandData().Options)
	userOpt, ok := opts["user"]
	if !ok || userOpt.Type != discordgo.ApplicationCommandOptionUser {
		rejectMissingOption(s, i, "user")
		return
	}
	durStr, ok := stringOption(opts, "duration")
	if !ok {
		rejectMissingOption(s, i, "duration")
		return
	}

	d, err := utils.ParseDuration(durStr)
	if err != nil || d <= 0 {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Invalid duration `%s`, use forms like 10m, 2h or 3d.", durStr))
		return
	}
	if d > maxTimeout {
		utils.SendErrorResponse(s, i, "Timeouts cannot exceed 28 days.")
		return
	}

	target := userOpt.UserValue(s)
	if target == nil {
		utils.SendErrorResponse(s, i, "Unknown member.")
		return
	}
	reason := "No reason provided"
	if v, ok := stringOption(opts, "reason"); ok && v != "" {
		reason = v
	}

	moderatorID := interactionUserID(i)
	if err := moderation.Timeout(s, b.ModLogs, i.GuildID, target.ID, moderatorID, d, reason); err != nil {
		replyInternalError(s, i, b, "Moderation", "timeout", err)
		return
	}

	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title: "⏳ Member timed out",
		Color: 0xE74C3C,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Member", Value: target.Mention(), Inline: true},
			{Name: "Duration", Value: d.String(), Inline: true},
			{Name: "Reason", Value: reason},
		},
	})
	utils.LogInfo(s, b.Config.LogChannelID, "Moderation", "Timeout",
		fmt.Sprintf("%s timed out %s for %s: %s", moderatorID, target.ID, d, reason))
}
