// Package commands defines the slash-command table registered with the
// platform on startup.
package commands

import "github.com/bwmarrin/discordgo"

func minValue(v float64) *float64 { return &v }

// Generate builds the full command list.
func Generate() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "daily",
			Description: "Claim your daily token reward",
		},
		{
			Name:        "balance",
			Description: "Show your token balance and luck points",
		},
		{
			Name:        "coinflip",
			Description: "Bet tokens on a coin flip",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "side",
					Description: "The side you call",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Heads", Value: "heads"},
						{Name: "Tails", Value: "tails"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Tokens to wager",
					Required:    true,
					MinValue:    minValue(1),
				},
			},
		},
		{
			Name:        "transfer",
			Description: "Send tokens to another player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "recipient",
					Description: "Who receives the tokens",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Tokens to send",
					Required:    true,
					MinValue:    minValue(1),
				},
			},
		},
		{
			Name:        "pray",
			Description: "Pray for luck points",
		},
		{
			Name:        "leaderboard",
			Description: "Show the richest players",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "How many entries to show (default 10)",
					MinValue:    minValue(1),
				},
			},
		},
		{
			Name:        "schedule",
			Description: "Manage scheduled announcements",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Schedule an announcement",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "title",
							Description: "Announcement title",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "time",
							Description: "When to fire: \"in 2h30m\", RFC3339 or \"2006-01-02 15:04\"",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Destination channel (default: announcement channel)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "theme",
							Description: "Optional theme line",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "ping",
							Description: "Comma-separated pings: everyone, here, or role names",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cancel",
					Description: "Cancel a scheduled announcement",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "id",
							Description: "Job id (SCH-...)",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List pending announcements for this server",
				},
			},
		},
		{
			Name:        "announce",
			Description: "Immediate announcements and their defaults",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "send",
					Description: "Send an announcement now",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "message",
							Description: "The announcement text",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "ping",
							Description: "Comma-separated pings: everyone, here, or role names",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "type",
							Description: "Render as a colored embed",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Info", Value: "info"},
								{Name: "Warning", Value: "warning"},
								{Name: "Alert", Value: "alert"},
								{Name: "Success", Value: "success"},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "config",
					Description: "Set the default announcement channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Default destination channel",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "ping",
							Description: "Default ping spec",
						},
					},
				},
			},
		},
		{
			Name:        "timeout",
			Description: "Suspend a member's communication",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member to suspend",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "duration",
					Description: "How long: e.g. 10m, 2h, 3d (max 28d)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Why the member is suspended",
				},
			},
		},
		{
			Name:        "antispam",
			Description: "Enable or disable the anti-spam limiter",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "enabled",
					Description: "Whether the limiter is active",
					Required:    true,
				},
			},
		},
		{
			Name:        "lockdown",
			Description: "Lock or unlock all text channels",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "active",
					Description: "Whether lockdown is active",
					Required:    true,
				},
			},
		},
		{
			Name:        "sticky",
			Description: "Manage the sticky message in this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Set the sticky message body",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "body",
							Description: "The message to keep pinned at the bottom",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "Remove the sticky message",
				},
			},
		},
		{
			Name:        "welcome",
			Description: "Manage member-join greetings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Set the welcome message",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Where greetings are posted",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "template",
							Description: "Greeting text; {user} mentions the new member",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "Remove the welcome message",
				},
			},
		},
		{
			Name:        "modlogs",
			Description: "Show recent moderation actions",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "How many entries to show (default 10)",
					MinValue:    minValue(1),
				},
			},
		},
		{
			Name:        "status",
			Description: "Show bot and host status",
		},
	}
}
