package model

import "time"

// ScheduledJob is a one-shot announcement waiting in the durable queue.
// A job is either delivered by the poller and deleted, or cancelled and
// deleted; no other state exists.
type ScheduledJob struct {
	ID        string    `db:"id"`
	GuildID   string    `db:"guild_id"`
	ChannelID string    `db:"channel_id"`
	Title     string    `db:"title"`
	Theme     string    `db:"theme"`
	PingSpec  string    `db:"ping_spec"`
	FireAt    time.Time `db:"fire_at"`
	CreatorID string    `db:"creator_id"`
	CreatedAt time.Time `db:"created_at"`
}
