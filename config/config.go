package config

import (
	"log"
	"modbot/model"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load loads credentials from environment variables and tuning values
// from viper (defaults, optionally overridden by data/tuning.yaml or
// MODBOT_* environment variables).
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		log.Fatal("Error: APP_ID environment variable not set")
	}

	logChannelID := os.Getenv("LOG_CHANNEL_ID")
	if logChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, channel logging will be disabled")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/modbot.db"
	}

	v := viper.New()
	v.SetDefault("antispam.window_ms", 3000)
	v.SetDefault("antispam.limit", 5)
	v.SetDefault("antispam.mute_seconds", 3600)
	v.SetDefault("economy.daily_min", 1000)
	v.SetDefault("economy.daily_max", 5000)
	v.SetDefault("economy.utc_offset_hours", 8)
	v.SetDefault("economy.luck_affects_odds", false)
	v.SetDefault("economy.luck_bonus_per_point", 0.005)
	v.SetDefault("economy.luck_bonus_cap", 0.25)
	v.SetDefault("scheduler.poll_interval_seconds", 30)

	v.SetEnvPrefix("MODBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("tuning")
	v.SetConfigType("yaml")
	v.AddConfigPath("data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Info: data/tuning.yaml not found, using tuning defaults")
		} else {
			return nil, err
		}
	}

	cfg := &model.Config{
		BotToken:         token,
		AppID:            appID,
		LogChannelID:     logChannelID,
		DBPath:           dbPath,
		AdminRoleIDs:     splitIDs(os.Getenv("ADMIN_ROLE_IDS")),
		DeveloperUserIDs: splitIDs(os.Getenv("DEVELOPER_USER_IDS")),
		AntiSpam: model.AntiSpamConfig{
			WindowMs:    v.GetInt("antispam.window_ms"),
			Limit:       v.GetInt("antispam.limit"),
			MuteSeconds: v.GetInt("antispam.mute_seconds"),
		},
		Economy: model.EconomyConfig{
			DailyMin:          v.GetInt64("economy.daily_min"),
			DailyMax:          v.GetInt64("economy.daily_max"),
			UTCOffsetHours:    v.GetInt("economy.utc_offset_hours"),
			LuckAffectsOdds:   v.GetBool("economy.luck_affects_odds"),
			LuckBonusPerPoint: v.GetFloat64("economy.luck_bonus_per_point"),
			LuckBonusCap:      v.GetFloat64("economy.luck_bonus_cap"),
		},
		Scheduler: model.SchedulerConfig{
			PollIntervalSeconds: v.GetInt("scheduler.poll_interval_seconds"),
		},
	}

	if cfg.Economy.DailyMax < cfg.Economy.DailyMin {
		log.Printf("Warning: economy.daily_max < economy.daily_min, clamping to %d", cfg.Economy.DailyMin)
		cfg.Economy.DailyMax = cfg.Economy.DailyMin
	}

	return cfg, nil
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
