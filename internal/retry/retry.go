// Package retry provides a reusable retry policy with exponential backoff
// and jitter for transient failures.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	// ErrMaxAttemptsExceeded is returned when all retry attempts fail
	ErrMaxAttemptsExceeded = errors.New("max retry attempts exceeded")
	// ErrContextCancelled is returned when the context is cancelled during retry
	ErrContextCancelled = errors.New("context cancelled during retry")
)

// Policy configures retry behavior. The delay before retry attempt n is
// BaseDelay * 2^(n-1) plus a random jitter of 0-50% of that value, capped
// at MaxDelay.
type Policy struct {
	// MaxAttempts is the maximum number of attempts (including the first)
	MaxAttempts int
	// BaseDelay is the delay before the first retry
	BaseDelay time.Duration
	// MaxDelay caps the backoff delay (jitter included)
	MaxDelay time.Duration
	// IsRetryable decides whether an error is worth another attempt.
	// A nil predicate retries every error.
	IsRetryable func(error) bool
	// OnRetry, if set, is called before each retry sleep with the attempt
	// number that just failed, its error, and the chosen delay.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultPolicy returns the retry policy used for proxy-backed WHOIS
// lookups: 3 attempts, 500ms base delay.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    30 * time.Second,
	}
}

// NextDelay returns the backoff delay applied after the given failed
// attempt (1-based): exponential growth plus 0-50% random jitter.
func (p Policy) NextDelay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	if d > p.MaxDelay && p.MaxDelay > 0 {
		d = p.MaxDelay
	}
	jitter := time.Duration(0)
	if d > 0 {
		jitter = time.Duration(rand.Int63n(int64(d)/2 + 1))
	}
	total := d + jitter
	if p.MaxDelay > 0 && total > p.MaxDelay {
		total = p.MaxDelay
	}
	return total
}

// Do executes fn up to MaxAttempts times. Each attempt is a full,
// independent execution of fn; nothing is retried partially. The last error
// is returned (wrapped in ErrMaxAttemptsExceeded) when every attempt fails.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if p.IsRetryable != nil && !p.IsRetryable(err) {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}

		delay := p.NextDelay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrMaxAttemptsExceeded, p.MaxAttempts, lastErr)
}
