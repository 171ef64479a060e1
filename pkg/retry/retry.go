// Package retry provides bounded exponential backoff for transient failures.
package retry

import (
	"context"
	"errors"
	"time"
)

// TransientError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses, rate limits)
// with this type so that [Policy.Do] knows to attempt the operation again.
type TransientError struct{ Err error }

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Transient marks err as retryable.
func Transient(err error) error {
	return &TransientError{Err: err}
}

// Policy controls retry behavior: how many attempts to make and how the
// delay between them grows. The delay doubles after each failed attempt,
// capped at MaxDelay.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// Default is the policy used for proposer and vision calls.
var Default = Policy{
	Attempts:  3,
	BaseDelay: 2 * time.Second,
	MaxDelay:  10 * time.Second,
}

// Do executes fn up to p.Attempts times with exponential backoff.
// It only retries errors wrapped with [TransientError]; other errors are
// returned immediately. Returns the last error if all attempts fail, or
// ctx.Err() if cancelled while waiting.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.BaseDelay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsTransient(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = min(delay*2, p.MaxDelay)
			}
		}
	}
	return lastErr
}

// Do is a convenience wrapper around [Default].
func Do(ctx context.Context, fn func() error) error {
	return Default.Do(ctx, fn)
}

// IsTransient reports whether err is marked retryable.
func IsTransient(err error) bool {
	return errors.As(err, new(*TransientError))
}
