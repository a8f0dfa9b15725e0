package hclexpr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/ctyconv"
	"github.com/vk/flowgrid/internal/evaluator"
	"github.com/zclconf/go-cty/cty"
)

const inputVariable = "input"

// Evaluator implements evaluator.Evaluator for HCL expressions.
type Evaluator struct {
	timeout time.Duration
}

// New creates an HCL expression evaluator. A non-positive timeout selects
// evaluator.DefaultTimeout.
func New(timeout time.Duration) *Evaluator {
	return &Evaluator{timeout: evaluator.TimeoutOrDefault(timeout)}
}

type outcome struct {
	value cty.Value
	err   error
}

// Evaluate parses source as one HCL expression and evaluates it with `input`
// bound to the given value.
func (e *Evaluator) Evaluate(ctx context.Context, source string, input any) (any, error) {
	logger := ctxlog.FromContext(ctx).With("language", Language)

	expr, diags := hclsyntax.ParseExpression([]byte(source), "transform.hcl", hcl.InitialPos)
	if diags.HasErrors() {
		logger.Debug("Transform failed to parse.", "error", diags.Error())
		return nil, &evaluator.ParseError{Msg: diags.Error(), Err: diags}
	}
	for _, traversal := range expr.Variables() {
		if root := traversal.RootName(); root != inputVariable {
			return nil, &evaluator.ParseError{Msg: fmt.Sprintf("unknown variable %q: only %q is available", root, inputVariable)}
		}
	}

	if err := checkBudget(expr, input); err != nil {
		logger.Debug("Transform rejected before evaluation.", "error", err)
		return nil, &evaluator.RuntimeError{Msg: err.Error(), Err: err}
	}

	inVal, err := ctyconv.FromNative(input)
	if err != nil {
		return nil, &evaluator.RuntimeError{Msg: err.Error(), Err: err}
	}
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{inputVariable: inVal},
		Functions: functions(),
	}

	if ctx.Err() != nil {
		return nil, &evaluator.RuntimeError{Msg: "evaluation cancelled", Err: context.Canceled}
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// Expression evaluation cannot be interrupted. checkBudget keeps its cost
	// bounded; past the deadline the goroutine is left to finish on its own
	// and its result is dropped.
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: &evaluator.RuntimeError{Msg: fmt.Sprintf("evaluation panicked: %v", r)}}
			}
		}()
		val, diags := expr.Value(evalCtx)
		if diags.HasErrors() {
			done <- outcome{err: &evaluator.RuntimeError{Msg: diags.Error(), Err: diags}}
			return
		}
		done <- outcome{value: val}
	}()

	var res outcome
	select {
	case <-runCtx.Done():
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, &evaluator.TimeoutError{Limit: e.timeout}
		}
		return nil, &evaluator.RuntimeError{Msg: "evaluation cancelled", Err: context.Canceled}
	case res = <-done:
	}
	if res.err != nil {
		return nil, res.err
	}

	out, err := ctyconv.ToNative(res.value)
	if err != nil {
		return nil, &evaluator.RuntimeError{Msg: err.Error(), Err: err}
	}
	logger.Debug("Transform evaluated.")
	return out, nil
}
