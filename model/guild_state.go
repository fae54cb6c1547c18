package model

// StickyConfig makes the bot re-post a message body after every new
// message in a channel, deleting the previous copy.
type StickyConfig struct {
	GuildID       string `db:"guild_id"`
	ChannelID     string `db:"channel_id"`
	Body          string `db:"body"`
	LastMessageID string `db:"last_message_id"`
}

// WelcomeConfig is the per-guild member-join greeting. The template may
// contain a {user} placeholder.
type WelcomeConfig struct {
	GuildID   string `db:"guild_id"`
	ChannelID string `db:"channel_id"`
	Template  string `db:"template"`
}

// AnnouncementConfig is the per-guild default destination for the
// announce command and for scheduled jobs created without an explicit
// channel.
type AnnouncementConfig struct {
	GuildID     string `db:"guild_id"`
	ChannelID   string `db:"channel_id"`
	DefaultPing string `db:"default_ping"`
}
