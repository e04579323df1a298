package shell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/commerce-core-go/eventlog"
	"github.com/commercekit/commerce-core-go/shell"
)

func Test_Retry_SucceedsOnFirstAttempt(t *testing.T) {
	// arrange
	attempts := 0
	fn := func(ctx context.Context) error {
		attempts++
		return nil
	}

	// act
	metrics, err := shell.RetryWithExponentialBackoffCollectingMetrics(context.Background(), fn)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, metrics.Attempts)
	assert.Equal(t, "none", metrics.LastErrorType)
	assert.False(t, metrics.RetriesExhausted)
}

func Test_Retry_RetriesConcurrencyConflicts(t *testing.T) {
	// arrange - two conflicts, then success
	attempts := 0
	fn := func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return eventlog.ErrConcurrencyConflict
		}
		return nil
	}

	// act
	metrics, err := shell.RetryWithExponentialBackoffCollectingMetrics(
		context.Background(),
		fn,
		shell.WithBaseDelay(time.Millisecond),
		shell.WithJitterFactor(0),
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, metrics.Attempts)
	assert.Equal(t, "none", metrics.LastErrorType)
	assert.Positive(t, metrics.TotalDelay)
}

func Test_Retry_FailsFastOnNonRetryableError(t *testing.T) {
	// arrange
	permanentErr := errors.New("some business error")
	attempts := 0
	fn := func(ctx context.Context) error {
		attempts++
		return permanentErr
	}

	// act
	metrics, err := shell.RetryWithExponentialBackoffCollectingMetrics(context.Background(), fn)

	// assert
	assert.ErrorIs(t, err, permanentErr)
	assert.Equal(t, 1, attempts, "Non-retryable errors should not be retried")
	assert.Equal(t, "other", metrics.LastErrorType)
	assert.False(t, metrics.RetriesExhausted)
}

func Test_Retry_ExhaustsAttempts(t *testing.T) {
	// arrange - the conflict never resolves
	attempts := 0
	fn := func(ctx context.Context) error {
		attempts++
		return eventlog.ErrConcurrencyConflict
	}

	// act
	metrics, err := shell.RetryWithExponentialBackoffCollectingMetrics(
		context.Background(),
		fn,
		shell.WithMaxAttempts(3),
		shell.WithBaseDelay(time.Millisecond),
		shell.WithJitterFactor(0),
	)

	// assert
	assert.ErrorIs(t, err, eventlog.ErrConcurrencyConflict)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, metrics.Attempts)
	assert.Equal(t, "concurrency_conflict", metrics.LastErrorType)
	assert.True(t, metrics.RetriesExhausted)
}

func Test_Retry_StopsWhenContextIsCanceled(t *testing.T) {
	// arrange - cancel while waiting for the first backoff delay
	ctx, cancel := context.WithCancel(context.Background())
	fn := func(ctx context.Context) error {
		cancel()
		return eventlog.ErrConcurrencyConflict
	}

	// act
	metrics, err := shell.RetryWithExponentialBackoffCollectingMetrics(
		ctx,
		fn,
		shell.WithBaseDelay(time.Second),
	)

	// assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "context_canceled", metrics.LastErrorType)
}

func Test_Retry_OptionValidation(t *testing.T) {
	fn := func(ctx context.Context) error { return nil }

	testCases := []struct {
		name        string
		option      shell.RetryOption
		expectedErr error
	}{
		{
			name:        "zero max attempts",
			option:      shell.WithMaxAttempts(0),
			expectedErr: shell.ErrInvalidMaxAttempts,
		},
		{
			name:        "negative base delay",
			option:      shell.WithBaseDelay(-time.Millisecond),
			expectedErr: shell.ErrNegativeBaseDelay,
		},
		{
			name:        "jitter factor above one",
			option:      shell.WithJitterFactor(1.5),
			expectedErr: shell.ErrInvalidJitterFactor,
		},
		{
			name:        "nil metrics collector",
			option:      shell.WithMetrics(nil, "SomeCommand"),
			expectedErr: shell.ErrNilMetricsCollector,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			err := shell.RetryWithExponentialBackoff(context.Background(), fn, tc.option)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
