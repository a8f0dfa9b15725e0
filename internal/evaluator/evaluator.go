// Package evaluator defines the contract for running a transform node's code
// against its input, and the failures such a run can produce.
//
// An Evaluator receives exactly one JSON value, bound to the name `input`, and
// must return a JSON value. Implementations are expected to:
//   - start from a clean interpreter on every call and keep no state afterwards
//   - expose no host bindings (no I/O, no access to the graph)
//   - stop the evaluation once the context or their own time bound expires
//
// Failures are reported as *ParseError, *RuntimeError or *TimeoutError, which
// match ErrParse, ErrRuntime and ErrTimeout respectively under errors.Is.
package evaluator

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single evaluation when no timeout is configured.
const DefaultTimeout = 2 * time.Second

// Evaluator runs transform source text against a single input value.
type Evaluator interface {
	Evaluate(ctx context.Context, source string, input any) (any, error)
}

// Func adapts an ordinary function to the Evaluator interface.
type Func func(ctx context.Context, source string, input any) (any, error)

// Evaluate implements Evaluator.
func (f Func) Evaluate(ctx context.Context, source string, input any) (any, error) {
	return f(ctx, source, input)
}

// TimeoutOrDefault returns d, or DefaultTimeout when d is not positive.
func TimeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}
