package ratelimit

import (
	"context"
	"time"
)

// Limiter paces work between targets
type Limiter interface {
	// Wait blocks until the next target may start or ctx is done
	Wait(ctx context.Context) error
}

// FixedDelay sleeps the same interval on every Wait
type FixedDelay struct {
	delay time.Duration
}

// NewFixedDelay creates a limiter that waits delay each time. A non-positive
// delay makes Wait return immediately.
func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{delay: delay}
}

// Wait sleeps for the configured delay
func (f *FixedDelay) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(f.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Delay returns the configured interval
func (f *FixedDelay) Delay() time.Duration {
	return f.delay
}
