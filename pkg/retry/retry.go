// Package retry provides bounded retries with exponential backoff for
// calls to the Argo server API.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	clog "github.com/lcastro/nbflow/pkg/log"
)

// Config bounds the retry loop.
type Config struct {
	MaxRetries  int           // attempts after the first call
	BaseDelay   time.Duration // wait before the first retry
	MaxDelay    time.Duration // cap on the backoff wait
	Multiplier  float64       // backoff growth factor
	JitterRatio float64       // 0-1, randomizes each wait
}

// DefaultConfig returns defaults tuned for template registration calls.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Multiplier:  2.0,
		JitterRatio: 0.1,
	}
}

// transientError marks an error as safe to retry.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as retryable. Do retries only marked errors.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err carries the retry marker.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// unwrapTransient strips the marker so callers never see it.
func unwrapTransient(err error) error {
	var te *transientError
	if errors.As(err, &te) {
		return te.err
	}
	return err
}

// Do calls fn until it succeeds, returns a non-transient error, the
// attempt budget runs out, or ctx is cancelled.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		if !IsTransient(err) {
			clog.Debug("giving up, error is not transient", "error", err)
			return zero, err
		}
		if attempt == cfg.MaxRetries {
			return zero, unwrapTransient(err)
		}

		wait := backoff(cfg, attempt)
		clog.Debug("transient error, backing off",
			"attempt", attempt+1,
			"max_retries", cfg.MaxRetries,
			"delay", wait,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// backoff computes the wait before the next attempt.
func backoff(cfg Config, attempt int) time.Duration {
	wait := float64(cfg.BaseDelay) * math.Pow(cfg.Multiplier, float64(attempt))
	if wait > float64(cfg.MaxDelay) {
		wait = float64(cfg.MaxDelay)
	}
	if cfg.JitterRatio > 0 {
		wait += wait * cfg.JitterRatio * (rand.Float64()*2 - 1)
	}
	return time.Duration(wait)
}
