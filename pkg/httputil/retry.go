package httputil

import (
	"context"
	"errors"
	"time"
)

// maxHintedDelay bounds a server's Retry-After hint.
const maxHintedDelay = 10 * time.Second

// RetryableError marks a transient failure (network error, 5xx, 429).
// [Retry] only repeats calls whose error wraps one. A non-zero After
// overrides the backoff before the next attempt.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	return RetryAfter(err, 0)
}

// RetryAfter marks err as transient and asks for the next attempt to wait d.
func RetryAfter(err error, d time.Duration) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err, After: d}
}

// IsRetryable reports whether err wraps a [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Retry calls fn until it succeeds, returns a non-retryable error, or
// attempts run out. The wait starts at delay and doubles per attempt
// unless the error carries a hint. The last error is returned; ctx
// cancellation returns ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for left := max(attempts, 1); left > 0; left-- {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if left == 1 {
			break
		}
		if werr := sleep(ctx, backoff(err, delay)); werr != nil {
			return werr
		}
		delay *= 2
	}
	return err
}

// RetryWithBackoff retries fn three times starting from a one second delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func backoff(err error, delay time.Duration) time.Duration {
	var re *RetryableError
	if errors.As(err, &re) && re.After > 0 {
		return min(re.After, maxHintedDelay)
	}
	return delay
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
