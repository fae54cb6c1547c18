// Package moderation applies platform-side penalties and records them.
package moderation

import (
	"fmt"
	"modbot/model"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Moderation action names as stored in mod_logs.
const (
	ActionTimeout  = "timeout"
	ActionLockdown = "lockdown"
	ActionUnlock   = "unlock"
)

// LogStore is the durable mod_logs table.
type LogStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewLogStore ensures the mod_logs table exists.
func NewLogStore(db *sqlx.DB) (*LogStore, error) {
	schema := `
    CREATE TABLE IF NOT EXISTS mod_logs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        guild_id TEXT NOT NULL,
        user_id TEXT NOT NULL,
        moderator_id TEXT NOT NULL,
        action TEXT NOT NULL,
        reason TEXT NOT NULL,
        created_at TIMESTAMP NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create mod_logs table: %w", err)
	}
	return &LogStore{db: db, now: time.Now}, nil
}

// Add records one moderation action.
func (s *LogStore) Add(entry model.ModLog) error {
	entry.CreatedAt = s.now()
	_, err := s.db.NamedExec(`INSERT INTO mod_logs (guild_id, user_id, moderator_id, action, reason, created_at)
        VALUES (:guild_id, :user_id, :moderator_id, :action, :reason, :created_at)`, entry)
	if err != nil {
		return fmt.Errorf("failed to insert mod log: %w", err)
	}
	return nil
}

// Recent returns the newest entries for a guild.
func (s *LogStore) Recent(guildID string, limit int) ([]model.ModLog, error) {
	if limit <= 0 {
		limit = 10
	}
	var entries []model.ModLog
	err := s.db.Select(&entries,
		`SELECT * FROM mod_logs WHERE guild_id = ? ORDER BY id DESC LIMIT ?`, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load mod logs: %w", err)
	}
	return entries, nil
}
