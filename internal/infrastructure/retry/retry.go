// Package retry runs an operation again with exponential backoff until it
// succeeds, fails permanently, or the attempt budget runs out.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Policy holds the backoff options.
type Policy struct {
	// MaxAttempts includes the initial attempt.
	MaxAttempts int

	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// JitterFactor adds up to this fraction of the delay at random (0.0 to 1.0).
	JitterFactor float64

	// RetryIf reports whether err deserves another attempt. Nil retries everything.
	RetryIf func(error) bool

	// OnRetry is called before each sleep with the failed attempt number.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// TokenPolicy is tuned for OAuth token endpoints: few attempts, short waits,
// and no retry on rejected credentials.
var TokenPolicy = Policy{
	MaxAttempts:  3,
	InitialDelay: 250 * time.Millisecond,
	MaxDelay:     2 * time.Second,
	Multiplier:   2.0,
	JitterFactor: 0.2,
	RetryIf:      SkipPermanent,
}

// Do calls fn until it returns a nil error or the policy gives up.
// The last result and error are returned.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	var (
		result T
		err    error
	)
	delay := p.InitialDelay

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}

		result, err = fn(ctx)
		if err == nil {
			return result, nil
		}
		if p.RetryIf != nil && !p.RetryIf(err) {
			return result, err
		}
		if attempt == p.MaxAttempts {
			break
		}

		wait := backoff(delay, p.MaxDelay, p.JitterFactor)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * p.Multiplier)
	}

	return result, err
}

func backoff(delay, maxDelay time.Duration, jitterFactor float64) time.Duration {
	wait := delay + time.Duration(rand.Float64()*float64(delay)*jitterFactor)
	if maxDelay > 0 && wait > maxDelay {
		wait = maxDelay
	}
	return wait
}

// PermanentError marks an error that must not be retried.
type PermanentError struct {
	Err error
}

func (p *PermanentError) Error() string {
	if p.Err == nil {
		return "permanent error"
	}
	return p.Err.Error()
}

func (p *PermanentError) Unwrap() error {
	return p.Err
}

// Permanent wraps err so that SkipPermanent stops retrying it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err, or anything it wraps, is permanent.
func IsPermanent(err error) bool {
	var permanent *PermanentError
	return errors.As(err, &permanent)
}

// SkipPermanent is a RetryIf predicate that stops on permanent errors.
func SkipPermanent(err error) bool {
	return !IsPermanent(err)
}

// WithMaxAttempts returns a copy of the policy with n attempts.
func (p Policy) WithMaxAttempts(n int) Policy {
	p.MaxAttempts = n
	return p
}

// WithDelays returns a copy of the policy with the given delay bounds.
func (p Policy) WithDelays(initial, maxDelay time.Duration) Policy {
	p.InitialDelay = initial
	p.MaxDelay = maxDelay
	return p
}

// WithOnRetry returns a copy of the policy with the retry hook set.
func (p Policy) WithOnRetry(fn func(attempt int, err error, wait time.Duration)) Policy {
	p.OnRetry = fn
	return p
}

// WithRetryIfSkipPermanent returns a copy of the policy that stops on permanent errors.
func (p Policy) WithRetryIfSkipPermanent() Policy {
	p.RetryIf = SkipPermanent
	return p
}
