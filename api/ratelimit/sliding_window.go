// Package ratelimit provides sliding-window admission control for outbound
// provider calls. One limiter is constructed per external API and shared by
// every client hitting that API.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow admits at most capacity calls per trailing window. Admit
// blocks until a slot frees up; it never rejects. Safe for concurrent use.
type SlidingWindow struct {
	mu         sync.Mutex
	capacity   int
	window     time.Duration
	timestamps []time.Time

	// now is injectable for deterministic tests.
	now func() time.Time
}

// NewSlidingWindow creates a limiter admitting capacity calls per window.
func NewSlidingWindow(capacity int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		capacity:   capacity,
		window:     window,
		timestamps: make([]time.Time, 0, capacity),
		now:        time.Now,
	}
}

// Admit blocks until a slot is free, then records the admission. Returns
// early with the context error if the caller gives up while waiting.
// Waiters loop rather than sleeping once: several goroutines may be queued
// on the same freed slot and only one of them gets it.
func (sw *SlidingWindow) Admit(ctx context.Context) error {
	for {
		sw.mu.Lock()
		now := sw.now()
		sw.prune(now)

		if len(sw.timestamps) < sw.capacity {
			sw.timestamps = append(sw.timestamps, now)
			sw.mu.Unlock()
			return nil
		}

		wait := sw.timestamps[0].Add(sw.window).Sub(now)
		sw.mu.Unlock()

		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// TryAdmit records an admission if a slot is free without blocking.
func (sw *SlidingWindow) TryAdmit() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	sw.prune(now)
	if len(sw.timestamps) >= sw.capacity {
		return false
	}
	sw.timestamps = append(sw.timestamps, now)
	return true
}

// InFlight returns the number of admissions still inside the window.
func (sw *SlidingWindow) InFlight() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.prune(sw.now())
	return len(sw.timestamps)
}

// prune drops timestamps older than the window. Caller holds the mutex.
func (sw *SlidingWindow) prune(now time.Time) {
	cutoff := now.Add(-sw.window)
	idx := 0
	for idx < len(sw.timestamps) && !sw.timestamps[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		sw.timestamps = append(sw.timestamps[:0], sw.timestamps[idx:]...)
	}
}
