// Package guildstate holds per-guild configuration: volatile moderation
// flags and the persisted sticky/welcome/announcement configs.
package guildstate

import (
	"database/sql"
	"errors"
	"fmt"
	"modbot/model"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store gates the other components. The anti-spam and lockdown flags
// live only in memory and reset to false on restart; sticky, welcome
// and announcement configs are durable.
type Store struct {
	mu       sync.Mutex
	antiSpam map[string]bool
	lockdown map[string]bool

	db *sqlx.DB
}

// NewStore ensures the persisted config tables exist.
func NewStore(db *sqlx.DB) (*Store, error) {
	schema := `
    CREATE TABLE IF NOT EXISTS sticky_messages (
        guild_id TEXT NOT NULL,
        channel_id TEXT NOT NULL,
        body TEXT NOT NULL,
        last_message_id TEXT NOT NULL DEFAULT '',
        PRIMARY KEY (guild_id, channel_id)
    );
    CREATE TABLE IF NOT EXISTS welcome_config (
        guild_id TEXT NOT NULL PRIMARY KEY,
        channel_id TEXT NOT NULL,
        template TEXT NOT NULL
    );
    CREATE TABLE IF NOT EXISTS announcement_config (
        guild_id TEXT NOT NULL PRIMARY KEY,
        channel_id TEXT NOT NULL,
        default_ping TEXT NOT NULL DEFAULT ''
    );`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create guild config tables: %w", err)
	}
	return &Store{
		antiSpam: make(map[string]bool),
		lockdown: make(map[string]bool),
		db:       db,
	}, nil
}

// AntiSpamEnabled reports the volatile anti-spam flag, default false.
func (s *Store) AntiSpamEnabled(guildID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.antiSpam[guildID]
}

// SetAntiSpam flips the volatile anti-spam flag.
func (s *Store) SetAntiSpam(guildID string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enabled {
		s.antiSpam[guildID] = true
	} else {
		delete(s.antiSpam, guildID)
	}
}

// LockdownActive reports the volatile lockdown flag, default false.
func (s *Store) LockdownActive(guildID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockdown[guildID]
}

// SetLockdown flips the volatile lockdown flag.
func (s *Store) SetLockdown(guildID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if active {
		s.lockdown[guildID] = true
	} else {
		delete(s.lockdown, guildID)
	}
}

// Sticky returns the sticky config for a channel, or nil when none is
// set.
func (s *Store) Sticky(channelID string) (*model.StickyConfig, error) {
	var cfg model.StickyConfig
	err := s.db.Get(&cfg, `SELECT * FROM sticky_messages WHERE channel_id = ?`, channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sticky config: %w", err)
	}
	return &cfg, nil
}

// SetSticky installs or replaces the sticky message for a channel.
func (s *Store) SetSticky(cfg model.StickyConfig) error {
	_, err := s.db.Exec(`INSERT INTO sticky_messages (guild_id, channel_id, body, last_message_id)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(guild_id, channel_id) DO UPDATE SET body = excluded.body, last_message_id = excluded.last_message_id`,
		cfg.GuildID, cfg.ChannelID, cfg.Body, cfg.LastMessageID)
	if err != nil {
		return fmt.Errorf("failed to set sticky config: %w", err)
	}
	return nil
}

// UpdateStickyMessageID records the latest re-posted copy so the next
// repost can delete it.
func (s *Store) UpdateStickyMessageID(guildID, channelID, messageID string) error {
	_, err := s.db.Exec(`UPDATE sticky_messages SET last_message_id = ? WHERE guild_id = ? AND channel_id = ?`,
		messageID, guildID, channelID)
	if err != nil {
		return fmt.Errorf("failed to update sticky message id: %w", err)
	}
	return nil
}

// ClearSticky removes the sticky config for a channel.
func (s *Store) ClearSticky(guildID, channelID string) error {
	_, err := s.db.Exec(`DELETE FROM sticky_messages WHERE guild_id = ? AND channel_id = ?`, guildID, channelID)
	if err != nil {
		return fmt.Errorf("failed to clear sticky config: %w", err)
	}
	return nil
}

// Welcome returns the welcome config for a guild, or nil when unset.
func (s *Store) Welcome(guildID string) (*model.WelcomeConfig, error) {
	var cfg model.WelcomeConfig
	err := s.db.Get(&cfg, `SELECT * FROM welcome_config WHERE guild_id = ?`, guildID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load welcome config: %w", err)
	}
	return &cfg, nil
}

// SetWelcome installs or replaces the guild welcome config.
func (s *Store) SetWelcome(cfg model.WelcomeConfig) error {
	_, err := s.db.Exec(`INSERT INTO welcome_config (guild_id, channel_id, template)
        VALUES (?, ?, ?)
        ON CONFLICT(guild_id) DO UPDATE SET channel_id = excluded.channel_id, template = excluded.template`,
		cfg.GuildID, cfg.ChannelID, cfg.Template)
	if err != nil {
		return fmt.Errorf("failed to set welcome config: %w", err)
	}
	return nil
}

// ClearWelcome removes the guild welcome config.
func (s *Store) ClearWelcome(guildID string) error {
	_, err := s.db.Exec(`DELETE FROM welcome_config WHERE guild_id = ?`, guildID)
	if err != nil {
		return fmt.Errorf("failed to clear welcome config: %w", err)
	}
	return nil
}

// Announcement returns the announcement config for a guild, or nil when
// unset.
func (s *Store) Announcement(guildID string) (*model.AnnouncementConfig, error) {
	var cfg model.AnnouncementConfig
	err := s.db.Get(&cfg, `SELECT * FROM announcement_config WHERE guild_id = ?`, guildID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load announcement config: %w", err)
	}
	return &cfg, nil
}

// SetAnnouncement installs or replaces the guild announcement config.
func (s *Store) SetAnnouncement(cfg model.AnnouncementConfig) error {
	_, err := s.db.Exec(`INSERT INTO announcement_config (guild_id, channel_id, default_ping)
        VALUES (?, ?, ?)
        ON CONFLICT(guild_id) DO UPDATE SET channel_id = excluded.channel_id, default_ping = excluded.default_ping`,
		cfg.GuildID, cfg.ChannelID, cfg.DefaultPing)
	if err != nil {
		return fmt.Errorf("failed to set announcement config: %w", err)
	}
	return nil
}
