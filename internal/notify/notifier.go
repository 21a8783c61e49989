// Package notify delivers captured leads to the humans who follow them up.
// Channels are fire-and-forget from the conversation's point of view:
// delivery failure is logged, never shown to the end user, and never blocks
// the success response once the record is persisted.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/orelIL123/gpt-chat-live/internal/model/chat"
)

// Notifier delivers a single lead record over one channel.
type Notifier interface {
	Send(ctx context.Context, lead *chat.LeadRecord) error
}

// Fanout sends to every channel and joins the failures; one channel
// failing does not stop the others.
type Fanout []Notifier

// Send dispatches the lead to all channels.
func (f Fanout) Send(ctx context.Context, lead *chat.LeadRecord) error {
	var errs []error
	for _, n := range f {
		if err := n.Send(ctx, lead); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Retrying wraps a notifier with bounded exponential backoff:
// delay = base * 2^(attempt-1), up to a fixed attempt ceiling.
type Retrying struct {
	next     Notifier
	attempts int
	base     time.Duration
	logger   *zap.Logger
}

// WithRetry decorates a notifier with retry behaviour.
func WithRetry(next Notifier, attempts int, base time.Duration, logger *zap.Logger) *Retrying {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrying{next: next, attempts: attempts, base: base, logger: logger}
}

// Send retries until success, attempt exhaustion or context cancellation.
func (r *Retrying) Send(ctx context.Context, lead *chat.LeadRecord) error {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		lastErr = r.next.Send(ctx, lead)
		if lastErr == nil {
			return nil
		}

		r.logger.Warn("lead notification attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.attempts),
			zap.Error(lastErr))

		if attempt == r.attempts {
			break
		}

		delay := r.base << (attempt - 1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("notification failed after %d attempts: %w", r.attempts, lastErr)
}
