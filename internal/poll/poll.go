// Package poll is the one place the service waits on something: acquiring a session lease and
// retrying the speech oracle both go through it.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMaxAttempts is returned when the condition never held within the attempt budget
var ErrMaxAttempts = errors.New("poll: max attempts reached")

// Options bounds a polling loop
type Options struct {
	Interval    time.Duration
	MaxAttempts int
}

// Until calls fn until it reports done, returns an error, the attempts run out or ctx ends.
// The first attempt runs immediately; later ones wait Interval.
func Until(ctx context.Context, opts Options, fn func(ctx context.Context) (bool, error)) error {
	if opts.MaxAttempts <= 0 {
		return fmt.Errorf("poll: max attempts must be positive, got %d", opts.MaxAttempts)
	}

	ticker := time.NewTicker(nonZero(opts.Interval))
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := fn(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt >= opts.MaxAttempts {
			return ErrMaxAttempts
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// permanentError marks a failure that retrying cannot fix
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Retry returns it at once instead of trying again
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry runs fn up to attempts times, sleeping delay*attempt between failures.
// The last error is returned when every attempt fails; an error wrapped with Permanent
// stops the loop and is returned unwrapped.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func(ctx context.Context) error) error {
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		var permanent *permanentError
		if errors.As(lastErr, &permanent) {
			return permanent.err
		}
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(delay * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

func nonZero(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Millisecond
	}
	return d
}
