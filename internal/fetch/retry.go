package fetch

import (
	"context"
	"errors"
	"time"
)

// DefaultMaxAttempts is the number of tries a URL gets within one run.
const DefaultMaxAttempts = 3

// RetryPolicy bounds the attempt loop. Delay is a fixed pause between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy returns three immediate attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts}
}

// PermanentError marks an error that must not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so that Retry returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Retry calls fn until it returns nil or the policy's attempts are used up.
// fn receives the 1-based attempt number. The number of attempts made and the
// last error are returned. A cancelled ctx ends the loop before the next attempt,
// and a PermanentError ends it immediately with the wrapped error.
func Retry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context, attempt int) error) (int, error) {
	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			return attempt - 1, lastErr
		}

		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return attempt, nil
		}
		var perm *PermanentError
		if errors.As(lastErr, &perm) {
			return attempt, perm.Err
		}

		if attempt < maxAttempts && policy.Delay > 0 {
			timer := time.NewTimer(policy.Delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return attempt, lastErr
			}
		}
	}
	return maxAttempts, lastErr
}
