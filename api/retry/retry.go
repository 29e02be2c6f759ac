// Package retry wraps provider calls with classification-driven retries and
// exponential backoff.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"li-server/api"
)

const DEFAULT_JITTER_CAP_MS = 1000

// Jitter produces the random component added to each backoff delay.
// Injectable so tests can pin delays.
type Jitter func() time.Duration

func defaultJitter() time.Duration {
	return time.Duration(rand.Intn(DEFAULT_JITTER_CAP_MS)) * time.Millisecond
}

// Policy retries operations whose failures classify as transient,
// rate-limited, or unknown. Auth and client errors propagate immediately.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	CapDelay    time.Duration
	jitter      Jitter
	sleep       func(context.Context, time.Duration) error
}

// NewPolicy creates a retry policy with wall-clock jitter.
func NewPolicy(maxAttempts int, baseDelay, capDelay time.Duration) *Policy {
	return &Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		CapDelay:    capDelay,
		jitter:      defaultJitter,
		sleep:       sleepCtx,
	}
}

// WithJitter replaces the jitter source. Used by tests.
func (p *Policy) WithJitter(j Jitter) *Policy {
	p.jitter = j
	return p
}

// Do runs op until it succeeds, fails terminally, or attempts run out.
// Exhaustion propagates the last error tagged with the attempt count.
func (p *Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !api.IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		delay := p.Delay(attempt)
		// A provider-supplied Retry-After wins over computed backoff.
		if after, ok := api.RetryAfter(lastErr); ok {
			delay = after
		}

		if err := p.sleep(ctx, delay); err != nil {
			return err
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", p.MaxAttempts, lastErr)
}

// Delay computes the backoff for a given attempt number (1-based):
// min(base * 2^(attempt-1) + jitter, cap).
func (p *Policy) Delay(attempt int) time.Duration {
	delay := p.BaseDelay << uint(attempt-1)
	delay += p.jitter()
	if delay > p.CapDelay {
		delay = p.CapDelay
	}
	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
