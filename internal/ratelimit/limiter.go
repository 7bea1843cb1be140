// Package ratelimit serializes outbound API calls with a minimum cooldown
// between the starts of any two consecutive calls.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter grants call slots spaced at least one cooldown apart. A single
// instance is shared by every concurrent sub-task of a trial, forcing their
// network calls into a strict global order. Instances are owned by the
// caller, not process-wide state, so tests stay isolated.
type Limiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	next     time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a limiter with the given cooldown between call starts. A zero
// or negative cooldown disables waiting.
func New(cooldown time.Duration) *Limiter {
	return &Limiter{
		cooldown: cooldown,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// NewWithClock builds a limiter with injectable time functions for tests.
func NewWithClock(cooldown time.Duration, now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) *Limiter {
	limiter := New(cooldown)
	if now != nil {
		limiter.now = now
	}
	if sleep != nil {
		limiter.sleep = sleep
	}
	return limiter
}

// Wait blocks until the next call slot is available, then claims it. At most
// one caller proceeds per cooldown window; later arrivals queue behind the
// slots already claimed.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.cooldown <= 0 {
		return ctx.Err()
	}
	l.mu.Lock()
	current := l.now()
	slot := l.next
	if slot.Before(current) {
		slot = current
	}
	l.next = slot.Add(l.cooldown)
	l.mu.Unlock()

	if wait := slot.Sub(current); wait > 0 {
		return l.sleep(ctx, wait)
	}
	return ctx.Err()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
