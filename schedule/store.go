// Package schedule implements the durable announcement queue: a sqlite
// store of future-dated jobs and a poller that delivers them.
package schedule

import (
	"errors"
	"fmt"
	"modbot/model"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when cancelling a job that does not exist
// (already fired, already cancelled, or never created).
var ErrNotFound = errors.New("scheduled job not found")

// InvalidTimeError rejects jobs whose fire time is not strictly in the
// future.
type InvalidTimeError struct {
	FireAt time.Time
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("fire time %s is not in the future", e.FireAt.Format(time.RFC3339))
}

// Store persists scheduled jobs. Jobs survive restarts; this is the one
// piece of state designed for durability.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewStore ensures the schedules table exists.
func NewStore(db *sqlx.DB) (*Store, error) {
	schema := `
    CREATE TABLE IF NOT EXISTS schedules (
        id TEXT NOT NULL PRIMARY KEY,
        guild_id TEXT NOT NULL,
        channel_id TEXT NOT NULL,
        title TEXT NOT NULL,
        theme TEXT NOT NULL DEFAULT '',
        ping_spec TEXT NOT NULL DEFAULT '',
        fire_at TIMESTAMP NOT NULL,
        creator_id TEXT NOT NULL,
        created_at TIMESTAMP NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schedules table: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Create validates and persists a job, returning its generated id.
// Ids are random tokens rather than a process-local counter so a
// restart cannot reissue an id already handed out.
func (s *Store) Create(job model.ScheduledJob) (string, error) {
	now := s.now()
	if !job.FireAt.After(now) {
		return "", &InvalidTimeError{FireAt: job.FireAt}
	}

	job.ID = "SCH-" + uuid.NewString()
	job.CreatedAt = now
	_, err := s.db.NamedExec(`INSERT INTO schedules (id, guild_id, channel_id, title, theme, ping_spec, fire_at, creator_id, created_at)
        VALUES (:id, :guild_id, :channel_id, :title, :theme, :ping_spec, :fire_at, :creator_id, :created_at)`, job)
	if err != nil {
		return "", fmt.Errorf("failed to insert scheduled job: %w", err)
	}
	return job.ID, nil
}

// Cancel deletes a pending job.
func (s *Store) Cancel(id string) error {
	res, err := s.db.Exec(`DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to cancel job %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns pending jobs for a guild, or all pending jobs when
// guildID is empty, soonest first.
func (s *Store) List(guildID string) ([]model.ScheduledJob, error) {
	var jobs []model.ScheduledJob
	var err error
	if guildID == "" {
		err = s.db.Select(&jobs, `SELECT * FROM schedules ORDER BY fire_at ASC`)
	} else {
		err = s.db.Select(&jobs, `SELECT * FROM schedules WHERE guild_id = ? ORDER BY fire_at ASC`, guildID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled jobs: %w", err)
	}
	return jobs, nil
}

// Due returns jobs whose fire time has passed.
func (s *Store) Due(now time.Time) ([]model.ScheduledJob, error) {
	var jobs []model.ScheduledJob
	err := s.db.Select(&jobs, `SELECT * FROM schedules WHERE fire_at <= ? ORDER BY fire_at ASC`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due jobs: %w", err)
	}
	return jobs, nil
}

// Delete removes a job after delivery (or as an orphan). Missing rows
// are not an error here: the poller may race a cancellation.
func (s *Store) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM schedules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete job %s: %w", id, err)
	}
	return nil
}
