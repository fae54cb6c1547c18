package model

import "time"

// ModLog records one moderation action taken in a guild, whether issued
// by an admin command or by the anti-spam limiter.
type ModLog struct {
	ID          int64     `db:"id"`
	GuildID     string    `db:"guild_id"`
	UserID      string    `db:"user_id"`
	ModeratorID string    `db:"moderator_id"`
	Action      string    `db:"action"`
	Reason      string    `db:"reason"`
	CreatedAt   time.Time `db:"created_at"`
}
