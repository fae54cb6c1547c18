package bot

import (
	"log"
	"sync"
	"time"

	"modbot/schedule"
)

// Scheduler hosts the background work: the announcement poller and a
// periodic sweep of stale limiter records.
type Scheduler struct {
	bot    *Bot
	poller *schedule.Poller
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewScheduler creates the scheduler; Start launches its goroutines.
func NewScheduler(b *Bot) *Scheduler {
	interval := time.Duration(b.Config.Scheduler.PollIntervalSeconds) * time.Second
	return &Scheduler{
		bot:    b,
		poller: schedule.NewPoller(b.Schedules, b.Session, interval),
		done:   make(chan struct{}),
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.poller.Start()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sweepTicker := time.NewTicker(1 * time.Hour)
		defer sweepTicker.Stop()
		for {
			select {
			case <-sweepTicker.C:
				s.bot.Limiter.Sweep(time.Now())
			case <-s.done:
				return
			}
		}
	}()
}

// Stop terminates all scheduled tasks gracefully.
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	s.poller.Stop()
	close(s.done)
	s.wg.Wait()
	log.Println("Scheduler stopped.")
}
