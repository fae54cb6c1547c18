package model

// Config holds everything loaded at startup: credentials from the
// environment and numeric tuning values from viper.
type Config struct {
	BotToken         string
	AppID            string
	LogChannelID     string
	DBPath           string
	AdminRoleIDs     []string
	DeveloperUserIDs []string

	AntiSpam  AntiSpamConfig
	Economy   EconomyConfig
	Scheduler SchedulerConfig
}

// AntiSpamConfig tunes the fixed-window message limiter. Window, limit
// and mute duration differed across bot deployments, so they are
// configuration rather than constants.
type AntiSpamConfig struct {
	WindowMs    int
	Limit       int
	MuteSeconds int
}

// EconomyConfig tunes the token economy.
type EconomyConfig struct {
	DailyMin       int64
	DailyMax       int64
	UTCOffsetHours int

	// LuckAffectsOdds controls whether accumulated luck points actually
	// bias the coin flip draw, or stay display-only as in the original
	// deployments.
	LuckAffectsOdds   bool
	LuckBonusPerPoint float64
	LuckBonusCap      float64
}

// SchedulerConfig tunes the scheduled-announcement poller.
type SchedulerConfig struct {
	PollIntervalSeconds int
}
