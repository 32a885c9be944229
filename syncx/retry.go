package syncx

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/multierr"
)

type retryOptions struct {
	baseDelay time.Duration
	maxDelay  time.Duration
	jitter    bool
}

type RetryOption func(*retryOptions)

// WithBaseDelay sets the delay before the first retry (default 100ms).
func WithBaseDelay(d time.Duration) RetryOption {
	return func(o *retryOptions) { o.baseDelay = d }
}

// WithMaxDelay caps the backoff (default 30s).
func WithMaxDelay(d time.Duration) RetryOption {
	return func(o *retryOptions) { o.maxDelay = d }
}

// WithNoJitter disables full jitter; useful for deterministic tests.
func WithNoJitter() RetryOption {
	return func(o *retryOptions) { o.jitter = false }
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so Retry stops immediately instead of retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry runs fn up to attempts times with exponential backoff and full
// jitter between tries. It stops early on a Permanent error or when ctx is
// done. On final failure the attempt errors are aggregated.
func Retry(ctx context.Context, attempts int, fn func(ctx context.Context) error, opts ...RetryOption) error {
	o := retryOptions{
		baseDelay: 100 * time.Millisecond,
		maxDelay:  30 * time.Second,
		jitter:    true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if attempts < 1 {
		attempts = 1
	}

	var errs error
	delay := o.baseDelay
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		errs = multierr.Append(errs, err)
		if attempt == attempts-1 {
			break
		}
		wait := delay
		if o.jitter {
			wait = time.Duration(rand.Int63n(int64(delay) + 1))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
		if delay > o.maxDelay {
			delay = o.maxDelay
		}
	}
	return errs
}
