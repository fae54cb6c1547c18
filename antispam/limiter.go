// Package antispam implements a per-user fixed-window message counter.
//
// The window resets at fixed intervals rather than sliding, so a burst
// straddling a window boundary can under-count. That imprecision is a
// known property of the limiter, kept for parity with the behavior the
// moderation team tuned around.
package antispam

import (
	"sync"
	"time"
)

// Action is the limiter's verdict on a single message.
type Action int

const (
	// ActionNone lets the message pass.
	ActionNone Action = iota
	// ActionPenalize means the user exhausted the window and should be
	// timed out. The record is already gone by the time this is
	// returned; the next message starts a fresh window.
	ActionPenalize
)

type record struct {
	count       int
	windowStart time.Time
}

// Limiter counts messages per user inside a fixed window. Safe for use
// from concurrent gateway event goroutines.
type Limiter struct {
	mu      sync.Mutex
	records map[string]*record
	window  time.Duration
	limit   int
}

// New creates a limiter that penalizes the limit-th message inside a
// single window.
func New(window time.Duration, limit int) *Limiter {
	return &Limiter{
		records: make(map[string]*record),
		window:  window,
		limit:   limit,
	}
}

// Record counts one message from userID at the given time and reports
// whether the user should be penalized.
func (l *Limiter) Record(userID string, now time.Time) Action {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.records[userID]
	if !ok || now.Sub(r.windowStart) > l.window {
		l.records[userID] = &record{count: 1, windowStart: now}
		return ActionNone
	}

	r.count++
	if r.count >= l.limit {
		// Window consumed; drop the record so the penalty fires once.
		delete(l.records, userID)
		return ActionPenalize
	}
	return ActionNone
}

// Sweep drops records whose window has long expired. Called
// periodically so idle users don't accumulate in the map.
func (l *Limiter) Sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, r := range l.records {
		if now.Sub(r.windowStart) > l.window {
			delete(l.records, id)
		}
	}
}

// Tracked reports how many users currently have an open window.
func (l *Limiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
