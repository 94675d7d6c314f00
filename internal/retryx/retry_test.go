package retryx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errTransient = errors.New("transient")
	errTerminal  = errors.New("terminal")
)

func isTransient(err error) bool { return errors.Is(err, errTransient) }

func TestLinearBackoff_Sequence(t *testing.T) {
	b := LinearBackoff(time.Second)
	for i := 1; i <= 4; i++ {
		d, stop := b.Next()
		require.False(t, stop)
		assert.Equal(t, time.Duration(i)*time.Second, d)
	}
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Retryable: isTransient}.Do(context.Background(),
		func(ctx context.Context, attempt int) error {
			calls++
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_TerminalErrorStopsImmediately(t *testing.T) {
	calls := 0
	retries := 0
	err := Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		Retryable:   isTransient,
		OnRetry:     func(int, time.Duration, error) { retries++ },
	}.Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		return errTerminal
	})

	require.ErrorIs(t, err, errTerminal)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, retries)
}

func TestDo_TransientExhaustsAttemptsWithLinearDelays(t *testing.T) {
	var (
		attempts []int
		delays   []time.Duration
	)
	last := errors.New("call 3")
	err := Policy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Millisecond,
		Retryable:   func(error) bool { return true },
		OnRetry: func(attempt int, d time.Duration, err error) {
			delays = append(delays, d)
			assert.Error(t, err)
		},
	}.Do(context.Background(), func(ctx context.Context, attempt int) error {
		attempts = append(attempts, attempt)
		if attempt == 3 {
			return last
		}
		return errTransient
	})

	assert.Same(t, last, err, "the final error is surfaced unchanged")
	assert.Equal(t, []int{1, 2, 3}, attempts)
	assert.Equal(t, []time.Duration{2 * time.Millisecond, 4 * time.Millisecond}, delays, "waits only between attempts")
}

func TestDo_RecoversOnSecondAttempt(t *testing.T) {
	calls := 0
	err := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Retryable: isTransient}.Do(context.Background(),
		func(ctx context.Context, attempt int) error {
			calls++
			if attempt == 1 {
				return errTransient
			}
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_ZeroAttemptsMeansOne(t *testing.T) {
	calls := 0
	err := Policy{}.Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		return errTransient
	})
	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestDo_NilClassifierRetriesEverything(t *testing.T) {
	calls := 0
	_ = Policy{MaxAttempts: 2, BaseDelay: time.Millisecond}.Do(context.Background(),
		func(ctx context.Context, attempt int) error {
			calls++
			return errTerminal
		})
	assert.Equal(t, 2, calls)
}

func TestDo_CanceledContextStopsWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Policy{MaxAttempts: 3, BaseDelay: time.Hour}.Do(ctx, func(ctx context.Context, attempt int) error {
		calls++
		cancel()
		return errTransient
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
