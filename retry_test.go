package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryer(attempts int) *Retryer {
	return NewRetryer(RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		RetryIf:        func(error) bool { return true },
	})
}

func TestRetryerSuccess(t *testing.T) {
	r := NewRetryer(DefaultRetryConfig())

	calls := 0
	attempts, err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestRetryerFailureThenSuccess(t *testing.T) {
	r := fastRetryer(5)

	calls := 0
	attempts, err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient error")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryerExhausted(t *testing.T) {
	r := fastRetryer(3)
	boom := errors.New("boom")

	attempts, err := r.Do(context.Background(), func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)
}

func TestRetryerPermanentError(t *testing.T) {
	r := NewRetryer(RetryConfig{MaxAttempts: 5, InitialBackoff: time.Millisecond})

	calls := 0
	_, err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return errNotFound("k")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "permanent error retried")
}

func TestRetryerContextCancel(t *testing.T) {
	r := NewRetryer(RetryConfig{
		MaxAttempts:    10,
		InitialBackoff: time.Hour,
		RetryIf:        func(error) bool { return true },
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Do(ctx, func(context.Context) error { return errors.New("503") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryValue(t *testing.T) {
	r := fastRetryer(3)
	calls := 0
	got, err := retryValue(context.Background(), r, func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "partial", errors.New("timeout")
		}
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", got)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{context.DeadlineExceeded, false},
		{errors.New("connection reset by peer"), true},
		{errors.New("SlowDown: please reduce your request rate"), true},
		{errors.New("StatusCode: 503"), true},
		{errors.New("NoSuchKey"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRetryable(tt.err), "IsRetryable(%v)", tt.err)
	}
}
