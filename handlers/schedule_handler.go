package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/bot"
	"modbot/model"
	"modbot/schedule"
	"modbot/utils"
)

// HandleSchedule routes the schedule subcommands.
func HandleSchedule(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	switch sub.Name {
	case "create":
		handleScheduleCreate(s, i, b, sub)
	case "cancel":
		handleScheduleCancel(s, i, b, sub)
	case "list":
		handleScheduleList(s, i, b)
	}
}

func handleScheduleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(sub.Options)
	title, ok := stringOption(opts, "title")
	if !ok {
		rejectMissingOption(s, i, "title")
		return
	}
	timeSpec, ok := stringOption(opts, "time")
	if !ok {
		rejectMissingOption(s, i, "time")
		return
	}

	loc := time.FixedZone(fmt.Sprintf("UTC%+d", b.Config.Economy.UTCOffsetHours), b.Config.Economy.UTCOffsetHours*3600)
	fireAt, err := utils.ParseFireTime(timeSpec, time.Now(), loc)
	if err != nil {
		utils.SendErrorResponse(s, i, err.Error())
		return
	}

	channelID := ""
	if opt, ok := opts["channel"]; ok && opt.Type == discordgo.ApplicationCommandOptionChannel {
		channelID = opt.ChannelValue(nil).ID
	} else {
		// Fall back to the guild's configured announcement channel,
		// then to the invoking channel.
		ann, err := b.Flags.Announcement(i.GuildID)
		if err == nil && ann != nil {
			channelID = ann.ChannelID
		} else {
			channelID = i.ChannelID
		}
	}

	job := model.ScheduledJob{
		GuildID:   i.GuildID,
		ChannelID: channelID,
		Title:     title,
		FireAt:    fireAt,
		CreatorID: interactionUserID(i),
	}
	if v, ok := stringOption(opts, "theme"); ok {
		job.Theme = v
	}
	if v, ok := stringOption(opts, "ping"); ok {
		job.PingSpec = v
	}

	id, err := b.Schedules.Create(job)
	if err != nil {
		var invalid *schedule.InvalidTimeError
		if errors.As(err, &invalid) {
			utils.SendErrorResponse(s, i, "The fire time must be in the future.")
			return
		}
		replyInternalError(s, i, b, "Schedule", "create", err)
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("📅 Scheduled **%s** for <t:%d:F> in <#%s>. Id: `%s`",
		title, fireAt.Unix(), channelID, id))
}

func handleScheduleCancel(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	id, ok := stringOption(optionMap(sub.Options), "id")
	if !ok {
		rejectMissingOption(s, i, "id")
		return
	}
	err := b.Schedules.Cancel(id)
	if err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			utils.SendErrorResponse(s, i, fmt.Sprintf("No pending announcement with id `%s`.", id))
			return
		}
		replyInternalError(s, i, b, "Schedule", "cancel", err)
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("🗑️ Cancelled `%s`.", id))
}

func handleScheduleList(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	jobs, err := b.Schedules.List(i.GuildID)
	if err != nil {
		replyInternalError(s, i, b, "Schedule", "list", err)
		return
	}
	if len(jobs) == 0 {
		utils.SendEphemeralResponse(s, i, "No pending announcements.")
		return
	}

	var sb strings.Builder
	for _, job := range jobs {
		fmt.Fprintf(&sb, "`%s` — **%s** in <#%s> at <t:%d:f>\n", job.ID, job.Title, job.ChannelID, job.FireAt.Unix())
	}
	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title:       "📅 Pending Announcements",
		Color:       0x3498DB,
		Description: sb.String(),
	})
}

// HandleAnnounce routes the announce subcommands.
func HandleAnnounce(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	switch sub.Name {
	case "send":
		handleAnnounceSend(s, i, b, sub)
	case "config":
		handleAnnounceConfig(s, i, b, sub)
	}
}

func handleAnnounceSend(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(sub.Options)
	message, ok := stringOption(opts, "message")
	if !ok {
		rejectMissingOption(s, i, "message")
		return
	}

	ann, err := b.Flags.Announcement(i.GuildID)
	if err != nil {
		replyInternalError(s, i, b, "Announce", "send", err)
		return
	}
	channelID := i.ChannelID
	pingSpec := ""
	if ann != nil {
		channelID = ann.ChannelID
		pingSpec = ann.DefaultPing
	}
	if v, ok := stringOption(opts, "ping"); ok {
		pingSpec = v
	}

	mentionLine := ""
	if pingSpec != "" {
		roles, err := s.GuildRoles(i.GuildID)
		if err != nil {
			replyInternalError(s, i, b, "Announce", "send", err)
			return
		}
		if mentions := schedule.ResolveMentions(pingSpec, roles); len(mentions) > 0 {
			mentionLine = strings.Join(mentions, " ")
		}
	}

	// Typed announcements go out as a colored embed with the mentions
	// kept in the message content, since embed text does not ping.
	if kind, ok := stringOption(opts, "type"); ok {
		color, valid := schedule.KindColor(kind)
		if !valid {
			utils.SendErrorResponse(s, i, fmt.Sprintf("Unknown announcement type `%s`.", kind))
			return
		}
		_, err = s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Content: mentionLine,
			Embeds: []*discordgo.MessageEmbed{{
				Description: message,
				Color:       color,
			}},
		})
	} else {
		content := message
		if mentionLine != "" {
			content = mentionLine + "\n" + message
		}
		_, err = s.ChannelMessageSend(channelID, content)
	}
	if err != nil {
		replyInternalError(s, i, b, "Announce", "send", err)
		return
	}
	utils.SendEphemeralResponse(s, i, fmt.Sprintf("📣 Announcement sent to <#%s>.", channelID))
}

func handleAnnounceConfig(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(sub.Options)
	channelOpt, ok := opts["channel"]
	if !ok || channelOpt.Type != discordgo.ApplicationCommandOptionChannel {
		rejectMissingOption(s, i, "channel")
		return
	}
	cfg := model.AnnouncementConfig{
		GuildID:   i.GuildID,
		ChannelID: channelOpt.ChannelValue(nil).ID,
	}
	if v, ok := stringOption(opts, "ping"); ok {
		cfg.DefaultPing = v
	}

	if err := b.Flags.SetAnnouncement(cfg); err != nil {
		replyInternalError(s, i, b, "Announce", "config", err)
		return
	}
	utils.SendEphemeralResponse(s, i, fmt.Sprintf("Default announcement channel set to <#%s>.", cfg.ChannelID))
}
