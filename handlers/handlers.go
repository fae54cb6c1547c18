// Package handlers connects gateway events to the component stores.
package handlers

import (
	"fmt"
	"log"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"

	"modbot/bot"
	"modbot/utils"
)

// Register installs all gateway event handlers on the bot.
func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"daily": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleDaily(s, i, b)
		},
		"balance": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleBalance(s, i, b)
		},
		"coinflip": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleCoinFlip(s, i, b)
		},
		"transfer": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleTransfer(s, i, b)
		},
		"pray": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandlePray(s, i, b)
		},
		"leaderboard": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleLeaderboard(s, i, b)
		},
		"schedule": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(b, s, i) {
				return
			}
			HandleSchedule(s, i, b)
		},
		"announce": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(b, s, i) {
				return
			}
			HandleAnnounce(s, i, b)
		},
		"timeout": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(b, s, i) {
				return
			}
			HandleTimeout(s, i, b)
		},
		"antispam": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(b, s, i) {
				return
			}
			HandleAntiSpamToggle(s, i, b)
		},
		"lockdown": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(b, s, i) {
				return
			}
			HandleLockdown(s, i, b)
		},
		"sticky": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(b, s, i) {
				return
			}
			HandleSticky(s, i, b)
		},
		"welcome": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(b, s, i) {
				return
			}
			HandleWelcome(s, i, b)
		},
		"modlogs": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(b, s, i) {
				return
			}
			HandleModLogs(s, i, b)
		},
		"status": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(b, s, i) {
				return
			}
			HandleStatus(s, i, b)
		},
	}
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", r.User.Username, r.User.Discriminator)
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		name := i.ApplicationCommandData().Name
		if h, ok := b.CommandHandlers[name]; ok {
			defer recoverPanic(s, b, "Command", name)
			h(s, i)
		}
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		defer recoverPanic(s, b, "Gateway", "messageCreate")
		HandleMessageCreate(s, m, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, g *discordgo.GuildMemberAdd) {
		defer recoverPanic(s, b, "Gateway", "memberJoin")
		HandleMemberJoin(s, g, b)
	})
}

// recoverPanic keeps a misbehaving handler from taking the gateway
// connection down with it. Deferred at every dispatch boundary.
func recoverPanic(s *discordgo.Session, b *bot.Bot, module, operation string) {
	if r := recover(); r != nil {
		log.Printf("Recovered panic in %s/%s: %v\n%s", module, operation, r, debug.Stack())
		utils.LogError(s, b.Config.LogChannelID, module, operation, fmt.Sprintf("recovered panic: %v", r))
	}
}

// requireAdmin gates admin commands on the configured role and
// developer lists, replying with a short refusal when the member does
// not qualify.
func requireAdmin(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command only works inside a server.")
		return false
	}
	if !utils.IsAdmin(i.Member.Roles, i.Member.User.ID, b.Config.AdminRoleIDs, b.Config.DeveloperUserIDs) {
		utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
		return false
	}
	return true
}

// optionMap flattens an option list for name-based lookup.
func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// The platform enforces required options, but a malformed or replayed
// interaction can still arrive without them. Handlers read required
// options through these accessors instead of dereferencing map lookups.

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) (string, bool) {
	opt, ok := opts[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionString {
		return "", false
	}
	return opt.StringValue(), true
}

func intOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) (int64, bool) {
	opt, ok := opts[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionInteger {
		return 0, false
	}
	return opt.IntValue(), true
}

func boolOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) (bool, bool) {
	opt, ok := opts[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionBoolean {
		return false, false
	}
	return opt.BoolValue(), true
}

func rejectMissingOption(s *discordgo.Session, i *discordgo.InteractionCreate, name string) {
	utils.SendErrorResponse(s, i, fmt.Sprintf("Missing required option `%s`.", name))
}
