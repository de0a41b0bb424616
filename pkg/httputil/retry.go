package httputil

import (
	"context"
	"errors"
	"time"
)

// MaxDelay caps a single wait between attempts, including waits requested
// by a Retry-After header.
const MaxDelay = 30 * time.Second

// RetryableError marks a failure worth another attempt: a transport error,
// a 5xx response, or a 429. After, when set, is the minimum wait the server
// asked for.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn until it succeeds, returns an error that is not a
// [RetryableError], or has been called attempts times. The wait starts at
// delay and doubles after every failure, never below the server's
// Retry-After and never above [MaxDelay]. A cancelled ctx ends the wait
// with ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := min(max(delay, re.After), MaxDelay)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return err
}

func isRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
