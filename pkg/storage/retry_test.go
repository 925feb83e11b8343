package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utm-trs/imgfetch/pkg/storage"
)

func fastRetryConfig() storage.RetryConfig {
	return storage.RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds_first_try", func(t *testing.T) {
		calls := 0
		err := storage.WithRetry(context.Background(), fastRetryConfig(), func() error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries_retryable_errors", func(t *testing.T) {
		calls := 0
		err := storage.WithRetry(context.Background(), fastRetryConfig(), func() error {
			calls++
			if calls < 3 {
				return storage.ErrConnFailed
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts_attempts", func(t *testing.T) {
		calls := 0
		err := storage.WithRetry(context.Background(), fastRetryConfig(), func() error {
			calls++
			return storage.ErrTimeout
		})

		assert.ErrorIs(t, err, storage.ErrTimeout)
		assert.Equal(t, 3, calls)
	})

	t.Run("does_not_retry_permanent_errors", func(t *testing.T) {
		calls := 0
		err := storage.WithRetry(context.Background(), fastRetryConfig(), func() error {
			calls++
			return storage.ErrNotFound
		})

		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Equal(t, 1, calls)
	})

	t.Run("does_not_retry_critical_errors", func(t *testing.T) {
		calls := 0
		err := storage.WithRetry(context.Background(), fastRetryConfig(), func() error {
			calls++
			return storage.ErrAuthFailed
		})

		assert.ErrorIs(t, err, storage.ErrAuthFailed)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops_on_cancelled_context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := storage.WithRetry(ctx, fastRetryConfig(), func() error {
			return storage.ErrConnFailed
		})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestErrorClassification(t *testing.T) {
	wrapped := storage.WrapError("trs_s3", "download", storage.ErrConnFailed)

	assert.True(t, storage.IsRetryable(wrapped))
	assert.False(t, storage.IsCritical(wrapped))
	assert.ErrorIs(t, wrapped, storage.ErrConnFailed)
	assert.Contains(t, wrapped.Error(), "trs_s3")

	assert.True(t, storage.IsCritical(storage.WrapError("b", "init", storage.ErrAuthFailed)))
	assert.False(t, storage.IsRetryable(errors.New("plain")))
}
