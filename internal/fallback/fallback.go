// Package fallback runs alternatives in order until one succeeds.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Attempt is one alternative. It receives the caller's context.
type Attempt[T any] func(ctx context.Context) (T, error)

// Error aggregates the failure of every attempt, in order.
type Error struct {
	Errs []error
}

func (e *Error) Error() string {
	if len(e.Errs) == 0 {
		return "fallback: no attempts"
	}
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("all %d attempts failed: %s", len(e.Errs), strings.Join(msgs, "; "))
}

// Unwrap exposes every attempt error to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	return e.Errs
}

// Last returns the most recent attempt error, or nil.
func (e *Error) Last() error {
	if len(e.Errs) == 0 {
		return nil
	}
	return e.Errs[len(e.Errs)-1]
}

// ErrNoAttempts is the sole cause recorded when First gets no attempts.
var ErrNoAttempts = errors.New("no attempts")

// First runs attempts sequentially and returns the first success. Later
// attempts never run once one succeeds. When all fail, or ctx is done
// before the next attempt starts, it returns an *Error.
func First[T any](ctx context.Context, attempts ...Attempt[T]) (T, error) {
	var zero T
	if len(attempts) == 0 {
		return zero, &Error{Errs: []error{ErrNoAttempts}}
	}

	agg := &Error{}
	for _, attempt := range attempts {
		if err := ctx.Err(); err != nil {
			agg.Errs = append(agg.Errs, err)
			return zero, agg
		}
		v, err := attempt(ctx)
		if err == nil {
			return v, nil
		}
		agg.Errs = append(agg.Errs, err)
	}
	return zero, agg
}

// Last returns the final attempt error carried by err, or err itself when it
// is not an aggregate.
func Last(err error) error {
	var agg *Error
	if errors.As(err, &agg) {
		return agg.Last()
	}
	return err
}
