package javascript

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/evaluator"
	"github.com/vk/flowgrid/internal/node"
)

const defaultMaxCallStackSize = 1024

// Evaluator implements evaluator.Evaluator with a fresh goja runtime per call.
type Evaluator struct {
	timeout      time.Duration
	maxCallStack int
}

// New creates a JavaScript evaluator. Non-positive arguments select defaults.
func New(timeout time.Duration, maxCallStackSize int) *Evaluator {
	if maxCallStackSize <= 0 {
		maxCallStackSize = defaultMaxCallStackSize
	}
	return &Evaluator{
		timeout:      evaluator.TimeoutOrDefault(timeout),
		maxCallStack: maxCallStackSize,
	}
}

// Timeout returns the bound applied to each evaluation.
func (e *Evaluator) Timeout() time.Duration {
	return e.timeout
}

// wrap turns a function body into a function expression of one parameter.
// The body sits on its own lines so a trailing line comment cannot swallow
// the closing brace.
func wrap(source string) string {
	return "(function (input) {\n" + source + "\n})"
}

// compile parses source as a function body. The wrapped program must be a
// single function expression; a body that closes the wrapper early and adds
// statements or operands of its own is rejected.
func compile(source string) (*goja.Program, error) {
	prog, err := parser.ParseFile(nil, "transform.js", wrap(source), 0)
	if err != nil {
		return nil, &evaluator.ParseError{Msg: err.Error(), Err: err}
	}
	if !isSingleFunction(prog) {
		return nil, &evaluator.ParseError{Msg: "transform must be a single function body"}
	}
	prg, err := goja.CompileAST(prog, true)
	if err != nil {
		return nil, &evaluator.ParseError{Msg: err.Error(), Err: err}
	}
	return prg, nil
}

func isSingleFunction(prog *ast.Program) bool {
	if len(prog.Body) != 1 {
		return false
	}
	stmt, ok := prog.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	_, ok = stmt.Expression.(*ast.FunctionLiteral)
	return ok
}

// Evaluate compiles source as a function body and calls it with input.
func (e *Evaluator) Evaluate(ctx context.Context, source string, input any) (result any, err error) {
	logger := ctxlog.FromContext(ctx).With("language", Language)

	prg, err := compile(source)
	if err != nil {
		logger.Debug("Transform failed to compile.", "error", err)
		return nil, err
	}

	raw, err := toJSONString(input)
	if err != nil {
		return nil, &evaluator.RuntimeError{Msg: err.Error(), Err: err}
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vm := goja.New()
	vm.SetMaxCallStackSize(e.maxCallStack)
	stop := context.AfterFunc(runCtx, func() {
		vm.Interrupt(runCtx.Err())
	})
	defer stop()

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Transform evaluation panicked.", "panic", r)
			result, err = nil, &evaluator.RuntimeError{Msg: fmt.Sprintf("evaluation panicked: %v", r)}
		}
	}()

	fnVal, err := vm.RunProgram(prg)
	if err != nil {
		return nil, e.classify(runCtx, err)
	}
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return nil, &evaluator.ParseError{Msg: "transform did not compile to a function"}
	}

	arg, err := parseJSON(vm, raw)
	if err != nil {
		return nil, e.classify(runCtx, err)
	}

	out, err := fn(goja.Undefined(), arg)
	if err != nil {
		return nil, e.classify(runCtx, err)
	}
	if out == nil || goja.IsUndefined(out) {
		return nil, &evaluator.RuntimeError{Msg: "transform did not return a value"}
	}

	value, err := node.NormalizeValue(out.Export())
	if err != nil {
		return nil, &evaluator.RuntimeError{Msg: err.Error(), Err: err}
	}
	logger.Debug("Transform evaluated.")
	return value, nil
}

// classify maps a goja failure onto the evaluator error taxonomy.
func (e *Evaluator) classify(ctx context.Context, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &evaluator.TimeoutError{Limit: e.timeout}
		}
		return &evaluator.RuntimeError{Msg: "evaluation cancelled", Err: context.Canceled}
	}

	var exception *goja.Exception
	if errors.As(err, &exception) {
		return &evaluator.RuntimeError{Msg: exceptionMessage(exception), Err: err}
	}
	return &evaluator.RuntimeError{Msg: err.Error(), Err: err}
}

// exceptionMessage returns the thrown value's `message` property when it has
// one (Error objects) and its string form otherwise (`throw "text"`).
func exceptionMessage(ex *goja.Exception) string {
	val := ex.Value()
	if val == nil {
		return ex.Error()
	}
	if obj, ok := val.(*goja.Object); ok {
		if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) && !goja.IsNull(msg) {
			return msg.String()
		}
	}
	return val.String()
}
