package handlers

import (
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"modbot/bot"
)

// HandleMemberJoin greets a new member when the guild has a welcome
// config.
func HandleMemberJoin(s *discordgo.Session, g *discordgo.GuildMemberAdd, b *bot.Bot) {
	if g.User == nil || g.User.Bot {
		return
	}

	welcome, err := b.Flags.Welcome(g.GuildID)
	if err != nil {
		log.Printf("Failed to load welcome config for guild %s: %v", g.GuildID, err)
		return
	}
	if welcome == nil {
		return
	}

	text := strings.ReplaceAll(welcome.Template, "{user}", g.User.Mention())
	if _, err := s.ChannelMessageSend(welcome.ChannelID, text); err != nil {
		log.Printf("Failed to send welcome message for guild %s: %v", g.GuildID, err)
	}
}
