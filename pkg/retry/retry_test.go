package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonotes/pkg/retry"
)

var errTemporary = errors.New("connection refused")

func fastPolicy(attempts int) retry.Policy {
	return retry.Policy{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Factor:         2,
	}
}

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), "connect", fastPolicy(5), func(context.Context) error {
		calls++
		if calls < 3 {
			return errTemporary
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), "connect", fastPolicy(3), func(context.Context) error {
		calls++
		return errTemporary
	})

	assert.ErrorIs(t, err, errTemporary)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	errFatal := errors.New("bad password")
	policy := fastPolicy(5)
	policy.Retryable = func(err error) bool { return !errors.Is(err, errFatal) }

	calls := 0
	err := retry.Do(context.Background(), "connect", policy, func(context.Context) error {
		calls++
		return errFatal
	})

	assert.ErrorIs(t, err, errFatal)
	assert.Equal(t, 1, calls)
}

func TestDoCanceledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := fastPolicy(5)
	policy.InitialBackoff = time.Minute

	err := retry.Do(ctx, "connect", policy, func(context.Context) error {
		cancel()
		return errTemporary
	})

	assert.ErrorIs(t, err, retry.ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, errTemporary)
}

func TestDoZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), "connect", retry.Policy{}, func(context.Context) error {
		calls++
		return errTemporary
	})

	assert.ErrorIs(t, err, errTemporary)
	assert.Equal(t, 1, calls)
}
