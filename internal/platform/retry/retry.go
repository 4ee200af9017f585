// Package retry wraps outbound provider calls with bounded exponential
// backoff so transient upstream failures do not surface as hard errors.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrUnavailable marks a provider that stayed unreachable after every
// retry attempt was spent.
var ErrUnavailable = errors.New("provider unavailable")

// Permanent marks err as non-retryable. The operation stops immediately
// and the original error is returned unwrapped.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op with exponential backoff until it succeeds, returns a
// permanent error, the context is cancelled, or maxRetries attempts
// beyond the first have failed.
func Do(ctx context.Context, maxRetries int, op func() error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second

	var permErr error
	wrapped := func() error {
		err := op()
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			permErr = perm.Err
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx)
	if err := backoff.Retry(wrapped, policy); err != nil {
		if permErr != nil {
			return permErr
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}
