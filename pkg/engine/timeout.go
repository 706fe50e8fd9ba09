package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is returned when an evaluation exceeds its time limit.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned when a newer evaluation started before this
	// one finished.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
	// ErrBusy is returned when the in-flight limit is reached.
	ErrBusy = errors.New("script engine busy")
)

type evalResult struct {
	items  []Item
	errors []EvalError
	err    error
}

// await blocks until the evaluating goroutine reports, the timeout fires or
// ctx ends. A goroutine that overruns keeps going and nobody reads its
// result.
// When stale is non-nil it is consulted on arrival, and a stale result is
// replaced by ErrSuperseded.
func await(ctx context.Context, ch <-chan evalResult, timeout time.Duration, stale func() bool) ([]Item, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if stale != nil && stale() {
			return nil, nil, ErrSuperseded
		}
		return res.items, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("evaluation canceled: %w", ctx.Err())
	}
}
