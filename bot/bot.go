package bot

import (
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"modbot/antispam"
	"modbot/commands"
	"modbot/economy"
	"modbot/guildstate"
	"modbot/model"
	"modbot/moderation"
	"modbot/schedule"
)

// Bot wires the gateway session to the component stores. All state is
// injected here rather than held in package-level variables so handlers
// and tests receive explicit dependencies.
type Bot struct {
	Session *discordgo.Session
	DB      *sqlx.DB
	Config  *model.Config

	Limiter   *antispam.Limiter
	Ledger    *economy.Ledger
	Schedules *schedule.Store
	Flags     *guildstate.Store
	ModLogs   *moderation.LogStore

	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	RegisteredCommands []*discordgo.ApplicationCommand

	scheduler *Scheduler
}

// New builds the bot and its component stores on the shared database.
func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent
	dg.StateEnabled = false

	ledger, err := economy.NewLedger(db, cfg.Economy)
	if err != nil {
		return nil, err
	}
	schedules, err := schedule.NewStore(db)
	if err != nil {
		return nil, err
	}
	flags, err := guildstate.NewStore(db)
	if err != nil {
		return nil, err
	}
	modLogs, err := moderation.NewLogStore(db)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		Session:   dg,
		DB:        db,
		Config:    cfg,
		Limiter:   antispam.New(time.Duration(cfg.AntiSpam.WindowMs)*time.Millisecond, cfg.AntiSpam.Limit),
		Ledger:    ledger,
		Schedules: schedules,
		Flags:     flags,
		ModLogs:   modLogs,
	}
	b.scheduler = NewScheduler(b)
	return b, nil
}

// RefreshCommands overwrites the application command table.
func (b *Bot) RefreshCommands() {
	cmds := commands.Generate()
	log.Printf("Registering %d application commands...", len(cmds))
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.Config.AppID, "", cmds)
	if err != nil {
		log.Printf("cannot register commands: %v", err)
		return
	}
	b.RegisteredCommands = registered
}

// Close shuts the bot down gracefully.
func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	b.scheduler.Stop()
	b.Session.Close()
}
