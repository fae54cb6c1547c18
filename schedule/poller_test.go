package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	channelID string
	content   string
}

type fakeSession struct {
	guilds   map[string]bool
	channels map[string]bool
	roles    []*discordgo.Role
	sent     []sentMessage
	sendErr  error
}

func unknownErr(code int) error {
	return &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: code}}
}

func (f *fakeSession) Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error) {
	if !f.guilds[guildID] {
		return nil, unknownErr(discordgo.ErrCodeUnknownGuild)
	}
	return &discordgo.Guild{ID: guildID}, nil
}

func (f *fakeSession) Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if !f.channels[channelID] {
		return nil, unknownErr(discordgo.ErrCodeUnknownChannel)
	}
	return &discordgo.Channel{ID: channelID}, nil
}

func (f *fakeSession) GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	return f.roles, nil
}

func (f *fakeSession) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, content: content})
	return &discordgo.Message{ID: "m1", ChannelID: channelID}, nil
}

func newTestPoller(t *testing.T, session *fakeSession) (*Poller, *Store) {
	t.Helper()
	store := newTestStore(t)
	p := NewPoller(store, session, 30*time.Second)
	return p, store
}

func TestPoller_DeliversOnceAndDeletes(t *testing.T) {
	session := &fakeSession{
		guilds:   map[string]bool{"g1": true},
		channels: map[string]bool{"c1": true},
		roles:    []*discordgo.Role{{ID: "9", Name: "Movie Fans"}},
	}
	p, store := newTestPoller(t, session)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	p.now = func() time.Time { return now.Add(time.Hour) }

	job := testJob(now.Add(time.Minute))
	job.PingSpec = "Movie Fans"
	_, err := store.Create(job)
	require.NoError(t, err)

	p.runOnce()
	require.Len(t, session.sent, 1)
	assert.Equal(t, "c1", session.sent[0].channelID)
	assert.Contains(t, session.sent[0].content, "<@&9>")
	assert.Contains(t, session.sent[0].content, "Movie night")

	// Fired jobs disappear from list and never fire again.
	jobs, err := store.List("")
	require.NoError(t, err)
	assert.Empty(t, jobs)

	p.runOnce()
	assert.Len(t, session.sent, 1)
}

func TestPoller_NotYetDue(t *testing.T) {
	session := &fakeSession{
		guilds:   map[string]bool{"g1": true},
		channels: map[string]bool{"c1": true},
	}
	p, store := newTestPoller(t, session)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	p.now = func() time.Time { return now.Add(time.Minute) }

	_, err := store.Create(testJob(now.Add(time.Hour)))
	require.NoError(t, err)

	p.runOnce()
	assert.Empty(t, session.sent)

	jobs, err := store.List("g1")
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestPoller_OrphanedDestinationDropped(t *testing.T) {
	// Guild exists but the channel is gone: job is deleted unfired.
	session := &fakeSession{
		guilds:   map[string]bool{"g1": true},
		channels: map[string]bool{},
	}
	p, store := newTestPoller(t, session)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	p.now = func() time.Time { return now.Add(time.Hour) }

	_, err := store.Create(testJob(now.Add(time.Minute)))
	require.NoError(t, err)

	p.runOnce()
	assert.Empty(t, session.sent)

	jobs, err := store.List("")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestPoller_TransientSendFailureKeepsJob(t *testing.T) {
	session := &fakeSession{
		guilds:   map[string]bool{"g1": true},
		channels: map[string]bool{"c1": true},
		sendErr:  errors.New("gateway hiccup"),
	}
	p, store := newTestPoller(t, session)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	p.now = func() time.Time { return now.Add(time.Hour) }

	_, err := store.Create(testJob(now.Add(time.Minute)))
	require.NoError(t, err)

	p.runOnce()
	jobs, err := store.List("")
	require.NoError(t, err)
	require.Len(t, jobs, 1, "undelivered job stays for the next tick")

	session.sendErr = nil
	p.runOnce()
	assert.Len(t, session.sent, 1)

	jobs, err = store.List("")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
