package schedule

import (
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Messenger is the slice of the gateway session the poller needs.
// *discordgo.Session satisfies it.
type Messenger interface {
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Poller delivers due jobs on a fixed interval. Delivery is
// at-most-once: the job is deleted right after a successful send, so a
// crash between send and delete can duplicate an announcement on the
// next boot. Acceptable for this domain.
type Poller struct {
	store    *Store
	session  Messenger
	interval time.Duration
	now      func() time.Time
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewPoller wires a poller to the store and session.
func NewPoller(store *Store, session Messenger, interval time.Duration) *Poller {
	return &Poller{
		store:    store,
		session:  session,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start launches the poll loop goroutine.
func (p *Poller) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.runOnce()
			case <-p.done:
				return
			}
		}
	}()
}

// Stop terminates the poll loop and waits for it.
func (p *Poller) Stop() {
	close(p.done)
	p.wg.Wait()
}

// runOnce processes everything currently due. Split out so tests can
// drive ticks directly.
func (p *Poller) runOnce() {
	jobs, err := p.store.Due(p.now())
	if err != nil {
		log.Printf("Error loading due jobs: %v", err)
		return
	}

	for _, job := range jobs {
		// A destination that vanished since creation orphans the job:
		// drop it without firing, it is not an error.
		if _, err := p.session.Guild(job.GuildID); err != nil {
			if isUnknownDestination(err) {
				log.Printf("Dropping orphaned job %s: guild %s is gone", job.ID, job.GuildID)
				p.deleteJob(job.ID)
			} else {
				log.Printf("Error resolving guild %s for job %s: %v", job.GuildID, job.ID, err)
			}
			continue
		}
		if _, err := p.session.Channel(job.ChannelID); err != nil {
			if isUnknownDestination(err) {
				log.Printf("Dropping orphaned job %s: channel %s is gone", job.ID, job.ChannelID)
				p.deleteJob(job.ID)
			} else {
				log.Printf("Error resolving channel %s for job %s: %v", job.ChannelID, job.ID, err)
			}
			continue
		}

		var mentions []string
		if job.PingSpec != "" {
			roles, err := p.session.GuildRoles(job.GuildID)
			if err != nil {
				log.Printf("Error loading roles for job %s, sending without pings: %v", job.ID, err)
			} else {
				mentions = ResolveMentions(job.PingSpec, roles)
			}
		}

		if _, err := p.session.ChannelMessageSend(job.ChannelID, BuildMessage(job.Title, job.Theme, mentions)); err != nil {
			// Leave the job in place; the next tick retries delivery.
			log.Printf("Failed to deliver job %s: %v", job.ID, err)
			continue
		}
		p.deleteJob(job.ID)
	}
}

func (p *Poller) deleteJob(id string) {
	if err := p.store.Delete(id); err != nil {
		log.Printf("Failed to delete job %s: %v", id, err)
	}
}

// isUnknownDestination reports whether the API said the guild or
// channel no longer exists, as opposed to a transient failure.
func isUnknownDestination(err error) bool {
	restErr, ok := err.(*discordgo.RESTError)
	if !ok {
		return false
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownGuild, discordgo.ErrCodeUnknownChannel:
			return true
		}
	}
	return restErr.Response != nil && restErr.Response.StatusCode == 404
}
