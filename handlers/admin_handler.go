package handlers

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"modbot/bot"
	"modbot/model"
	"modbot/moderation"
	"modbot/utils"
)

// HandleAntiSpamToggle flips the per-guild anti-spam flag. The flag is
// process-local: a restart resets it to off.
func HandleAntiSpamToggle(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	enabled, ok := boolOption(optionMap(i.ApplicationCommandData().Options), "enabled")
	if !ok {
		rejectMissingOption(s, i, "enabled")
		return
	}
	b.Flags.SetAntiSpam(i.GuildID, enabled)

	state := "disabled"
	if enabled {
		state = fmt.Sprintf("enabled (%d msgs / %dms → %ds timeout)",
			b.Config.AntiSpam.Limit, b.Config.AntiSpam.WindowMs, b.Config.AntiSpam.MuteSeconds)
	}
	utils.SendPublicResponse(s, i, "🛡️ Anti-spam "+state+".")
	utils.LogInfo(s, b.Config.LogChannelID, "AntiSpam", "Toggle",
		fmt.Sprintf("guild %s: %s by %s", i.GuildID, state, interactionUserID(i)))
}

// HandleLockdown locks or unlocks every text channel, reporting partial
// completion instead of swallowing per-channel failures.
func HandleLockdown(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	active, ok := boolOption(optionMap(i.ApplicationCommandData().Options), "active")
	if !ok {
		rejectMissingOption(s, i, "active")
		return
	}
	if b.Flags.LockdownActive(i.GuildID) == active {
		state := "not active"
		if active {
			state = "already active"
		}
		utils.SendErrorResponse(s, i, fmt.Sprintf("Lockdown is %s.", state))
		return
	}

	results, err := moderation.SetLockdown(s, i.GuildID, active)
	if err != nil {
		replyInternalError(s, i, b, "Lockdown", "toggle", err)
		return
	}
	b.Flags.SetLockdown(i.GuildID, active)

	action, verb := moderation.ActionUnlock, "Unlocked"
	if active {
		action, verb = moderation.ActionLockdown, "Locked"
	}
	if err := b.ModLogs.Add(model.ModLog{
		GuildID:     i.GuildID,
		UserID:      "",
		ModeratorID: interactionUserID(i),
		Action:      action,
		Reason:      fmt.Sprintf("%d/%d channels affected", moderation.Succeeded(results), len(results)),
	}); err != nil {
		replyInternalError(s, i, b, "Lockdown", "modlog", err)
		return
	}

	msg := fmt.Sprintf("🔒 %s %d of %d text channels.", verb, moderation.Succeeded(results), len(results))
	if failed := len(results) - moderation.Succeeded(results); failed > 0 {
		var names []string
		for _, r := range results {
			if r.Err != nil {
				names = append(names, "#"+r.ChannelName)
			}
		}
		msg += " Failed: " + strings.Join(names, ", ")
	}
	utils.SendPublicResponse(s, i, msg)
}

// HandleSticky manages the per-channel sticky message.
func HandleSticky(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	switch sub.Name {
	case "set":
		body, ok := stringOption(optionMap(sub.Options), "body")
		if !ok {
			rejectMissingOption(s, i, "body")
			return
		}
		err := b.Flags.SetSticky(model.StickyConfig{
			GuildID:   i.GuildID,
			ChannelID: i.ChannelID,
			Body:      body,
		})
		if err != nil {
			replyInternalError(s, i, b, "Sticky", "set", err)
			return
		}
		utils.SendEphemeralResponse(s, i, "📌 Sticky message set for this channel.")
	case "clear":
		if err := b.Flags.ClearSticky(i.GuildID, i.ChannelID); err != nil {
			replyInternalError(s, i, b, "Sticky", "clear", err)
			return
		}
		utils.SendEphemeralResponse(s, i, "Sticky message removed.")
	}
}

// HandleWelcome manages the guild welcome greeting.
func HandleWelcome(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	switch sub.Name {
	case "set":
		opts := optionMap(sub.Options)
		channelOpt, ok := opts["channel"]
		if !ok || channelOpt.Type != discordgo.ApplicationCommandOptionChannel {
			rejectMissingOption(s, i, "channel")
			return
		}
		template, ok := stringOption(opts, "template")
		if !ok {
			rejectMissingOption(s, i, "template")
			return
		}
		err := b.Flags.SetWelcome(model.WelcomeConfig{
			GuildID:   i.GuildID,
			ChannelID: channelOpt.ChannelValue(nil).ID,
			Template:  template,
		})
		if err != nil {
			replyInternalError(s, i, b, "Welcome", "set", err)
			return
		}
		utils.SendEphemeralResponse(s, i, "👋 Welcome message configured.")
	case "clear":
		if err := b.Flags.ClearWelcome(i.GuildID); err != nil {
			replyInternalError(s, i, b, "Welcome", "clear", err)
			return
		}
		utils.SendEphemeralResponse(s, i, "Welcome message removed.")
	}
}

// HandleModLogs lists recent moderation actions.
func HandleModLogs(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	limit := 10
	if v, ok := intOption(optionMap(i.ApplicationCommandData().Options), "limit"); ok {
		limit = int(v)
	}

	entries, err := b.ModLogs.Recent(i.GuildID, limit)
	if err != nil {
		replyInternalError(s, i, b, "ModLogs", "list", err)
		return
	}
	if len(entries) == 0 {
		utils.SendEphemeralResponse(s, i, "No moderation actions recorded.")
		return
	}

	var sb strings.Builder
	for _, e := range entries {
		target := "—"
		if e.UserID != "" {
			target = "<@" + e.UserID + ">"
		}
		fmt.Fprintf(&sb, "<t:%d:f> · **%s** · %s · %s\n", e.CreatedAt.Unix(), e.Action, target, e.Reason)
	}
	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title:       "📜 Moderation Log",
		Color:       0x992D22,
		Description: sb.String(),
	})
}
