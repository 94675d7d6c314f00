// Package retryx runs an operation under a bounded retry policy with a
// caller-supplied classifier for retryable errors.
package retryx

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy bounds a retry loop.
type Policy struct {
	// MaxAttempts is the total number of calls, including the first.
	// Values below 1 mean a single attempt.
	MaxAttempts int
	// BaseDelay is the linear backoff unit: the wait after attempt n is
	// n*BaseDelay.
	BaseDelay time.Duration
	// Retryable reports whether err may be retried. A nil Retryable retries
	// every error.
	Retryable func(err error) bool
	// OnRetry, when set, is called before each wait with the attempt that
	// just failed.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// LinearBackoff yields base, 2*base, 3*base, ... and never stops on its own.
func LinearBackoff(base time.Duration) retry.Backoff {
	var n int64
	return retry.BackoffFunc(func() (time.Duration, bool) {
		k := atomic.AddInt64(&n, 1)
		return time.Duration(k) * base, false
	})
}

// Do calls fn until it succeeds, fails with a non-retryable error, or the
// attempts are used up; in the last two cases the error from the final call
// is returned unchanged. Waits happen only between attempts. attempt starts
// at 1.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var (
		attempt int
		lastErr error
	)

	linear := LinearBackoff(p.BaseDelay)
	backoff := retry.WithMaxRetries(uint64(maxAttempts-1), retry.BackoffFunc(func() (time.Duration, bool) {
		delay, stop := linear.Next()
		if !stop && p.OnRetry != nil {
			p.OnRetry(attempt, delay, lastErr)
		}
		return delay, stop
	}))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		return retry.RetryableError(err)
	})
}
