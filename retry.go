package journal

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"
)

// RetryConfig configures exponential backoff for remote backends.
type RetryConfig struct {
	// MaxAttempts counts the first try. Default: 3
	MaxAttempts int

	// InitialBackoff is the delay before the first retry. Default: 100ms
	InitialBackoff time.Duration

	// MaxBackoff caps the delay between retries. Default: 10s
	MaxBackoff time.Duration

	// Multiplier grows the delay after each retry. Default: 2
	Multiplier float64

	// Jitter spreads each delay by up to this fraction. Default: 0.1
	Jitter float64

	// RetryIf decides whether an error is worth another attempt.
	// If nil, IsRetryable is used.
	RetryIf func(error) bool
}

// DefaultRetryConfig returns the settings used by S3Backend.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2,
		Jitter:         0.1,
	}
}

// Retryer runs operations with exponential backoff.
type Retryer struct {
	cfg RetryConfig
}

// NewRetryer fills unset fields of cfg with defaults.
func NewRetryer(cfg RetryConfig) *Retryer {
	def := DefaultRetryConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = def.Multiplier
	}
	if cfg.Jitter < 0 || cfg.Jitter > 1 {
		cfg.Jitter = def.Jitter
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = IsRetryable
	}
	return &Retryer{cfg: cfg}
}

// Do calls op until it succeeds, returns a permanent error, runs out of
// attempts or ctx is done. It returns the number of attempts made.
func (r *Retryer) Do(ctx context.Context, op func(context.Context) error) (int, error) {
	delay := r.cfg.InitialBackoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = op(ctx); err == nil {
			return attempt, nil
		}
		if attempt == r.cfg.MaxAttempts || !r.cfg.RetryIf(err) {
			return attempt, err
		}

		timer := time.NewTimer(r.jitter(delay))
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, ctx.Err()
		case <-timer.C:
		}
		delay = min(time.Duration(float64(delay)*r.cfg.Multiplier), r.cfg.MaxBackoff)
	}
}

func (r *Retryer) jitter(d time.Duration) time.Duration {
	if r.cfg.Jitter == 0 {
		return d
	}
	spread := float64(d) * r.cfg.Jitter
	return time.Duration(float64(d) + (rand.Float64()*2-1)*spread)
}

// retryValue is Do for operations that produce a value.
func retryValue[T any](ctx context.Context, r *Retryer, op func(context.Context) (T, error)) (T, error) {
	var out T
	_, err := r.Do(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err == nil {
			out = v
		}
		return err
	})
	return out, err
}

var transientMarkers = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"temporary failure",
	"service unavailable",
	"slow down",
	"slowdown",
	"too many requests",
	"throttl",
	"500",
	"502",
	"503",
	"504",
	"429",
}

// IsRetryable reports whether err looks transient. Cancellation and
// missing keys are permanent.
func IsRetryable(err error) bool {
	if err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
