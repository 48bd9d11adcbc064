package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
)

func Test_RetryWithExponentialBackoff_When_FirstAttemptSucceeds_Then_NoRetryHappens(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	// act
	meta, err := RetryWithExponentialBackoff(context.Background(), fn)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, ErrorTypeNone, meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_When_ConcurrencyConflictIsTransient_Then_ItRetriesUntilSuccess(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return errors.Join(circulation.ErrConcurrencyConflict, errors.New("could not serialize access"))
		}
		return nil
	}

	// act
	meta, err := RetryWithExponentialBackoff(context.Background(), fn, WithBaseDelay(time.Millisecond))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.GreaterOrEqual(t, meta.TotalDelay, 3*time.Millisecond)
	assert.Equal(t, ErrorTypeNone, meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_When_ErrorIsNotRetryable_Then_ItFailsFast(t *testing.T) {
	for _, nonRetryable := range []error{
		circulation.ErrNoAvailableCopies,
		circulation.ErrAlreadyBorrowed,
		context.DeadlineExceeded,
		errors.New("connection refused"),
	} {
		t.Run(nonRetryable.Error(), func(t *testing.T) {
			// arrange
			callCount := 0
			fn := func(_ context.Context) error {
				callCount++
				return nonRetryable
			}

			// act
			meta, err := RetryWithExponentialBackoff(context.Background(), fn)

			// assert
			assert.ErrorIs(t, err, nonRetryable)
			assert.Equal(t, 1, callCount)
			assert.Equal(t, 1, meta.Attempts)
			assert.False(t, meta.RetriesExhausted)
		})
	}
}

func Test_RetryWithExponentialBackoff_When_ConflictPersists_Then_RetriesAreExhausted(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return circulation.ErrConcurrencyConflict
	}

	// act
	meta, err := RetryWithExponentialBackoff(context.Background(), fn,
		WithMaxAttempts(3),
		WithBaseDelay(time.Millisecond),
		WithJitterFactor(0),
	)

	// assert
	assert.ErrorIs(t, err, circulation.ErrConcurrencyConflict)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, ErrorTypeConcurrencyConflict, meta.LastErrorType)
	assert.GreaterOrEqual(t, meta.TotalDelay, 3*time.Millisecond)
}

func Test_RetryWithExponentialBackoff_When_ContextIsCanceledDuringBackoff_Then_ItStops(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		cancel()
		return circulation.ErrConcurrencyConflict
	}

	// act
	meta, err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Second))

	// assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, ErrorTypeContextCanceled, meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_When_OptionIsInvalid_Then_ItFailsBeforeCallingFn(t *testing.T) {
	testCases := []struct {
		name     string
		option   RetryOption
		expected error
	}{
		{"zero attempts", WithMaxAttempts(0), ErrInvalidMaxAttempts},
		{"negative delay", WithBaseDelay(-time.Millisecond), ErrNegativeBaseDelay},
		{"jitter below zero", WithJitterFactor(-0.1), ErrInvalidJitterFactor},
		{"jitter above one", WithJitterFactor(1.1), ErrInvalidJitterFactor},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			called := false
			fn := func(_ context.Context) error {
				called = true
				return nil
			}

			// act
			_, err := RetryWithExponentialBackoff(context.Background(), fn, tc.option)

			// assert
			assert.ErrorIs(t, err, tc.expected)
			assert.False(t, called)
		})
	}
}

func Test_BackoffDelay_When_JitterIsZero_Then_DelayDoublesPerAttempt(t *testing.T) {
	// arrange
	config := &retryConfig{baseDelay: 10 * time.Millisecond}

	// act / assert
	assert.Equal(t, 10*time.Millisecond, config.backoffDelay(1))
	assert.Equal(t, 20*time.Millisecond, config.backoffDelay(2))
	assert.Equal(t, 40*time.Millisecond, config.backoffDelay(3))
	assert.Equal(t, 160*time.Millisecond, config.backoffDelay(5))
}
