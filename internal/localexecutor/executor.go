// Package localexecutor provides a concrete, in-process implementation of the
// executor.Executor interface. Nodes run one at a time, strictly in the order
// the scheduler resolves.
package localexecutor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/evaluator"
	"github.com/vk/flowgrid/internal/executor"
	"github.com/vk/flowgrid/internal/graph"
	"github.com/vk/flowgrid/internal/inmemorystore"
	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/scheduler"
	"github.com/vk/flowgrid/internal/topologystore"
)

// MsgCancelled is the failure message of a run stopped through its context.
const MsgCancelled = "run cancelled"

// Executor implements the executor.Executor interface for local execution.
type Executor struct {
	reg      *registry.Registry
	sinks    executor.SinkWriter
	observer executor.Observer
}

var _ executor.Executor = (*Executor)(nil)

// Option configures an Executor.
type Option func(*Executor)

// WithObserver reports node and run completions to o.
func WithObserver(o executor.Observer) Option {
	return func(e *Executor) { e.observer = o }
}

// New creates a local executor. Transforms are evaluated by the evaluators in
// reg and sink values are written to sinks.
func New(reg *registry.Registry, sinks executor.SinkWriter, opts ...Option) *Executor {
	e := &Executor{reg: reg, sinks: sinks, observer: noopObserver{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes snap and returns its result.
func (e *Executor) Run(ctx context.Context, snap *topologystore.Snapshot) (*executor.Result, error) {
	logger := ctxlog.FromContext(ctx)
	started := time.Now()

	order, err := scheduler.Order(ctx, snap)
	if err != nil {
		logger.Error("Pipeline cannot run.", "error", err)
		stage := ""
		var cycleErr *scheduler.CycleError
		if errors.As(err, &cycleErr) && len(cycleErr.Nodes) > 0 {
			stage = cycleErr.Nodes[0]
		}
		res := executor.Fail(stage, err.Error())
		e.observer.RunFinished(res.Outcome, time.Since(started))
		return res, err
	}

	logger.Info("▶️ Starting pipeline run.", "nodes", len(order))
	g := graph.New(snap, inmemorystore.New())

	res := e.runOrdered(ctx, g, snap, order)
	if res.Trace, err = g.States(ctx); err != nil {
		return nil, fmt.Errorf("failed to collect run trace: %w", err)
	}

	elapsed := time.Since(started)
	e.observer.RunFinished(res.Outcome, elapsed)
	if res.OK() {
		logger.Info("✅ Pipeline run succeeded.", "duration", elapsed)
	} else {
		logger.Warn("❌ Pipeline run failed.", "stage", res.Failure.Stage, "message", res.Failure.Message, "duration", elapsed)
	}
	return res, nil
}

func (e *Executor) runOrdered(ctx context.Context, g *graph.Manager, snap *topologystore.Snapshot, order []string) *executor.Result {
	var written []string
	for i, id := range order {
		n, _ := g.Node(ctx, id)

		if ctx.Err() != nil {
			e.abort(ctx, g, order[i:], id, context.Cause(ctx))
			return executor.Fail(id, MsgCancelled)
		}

		nodeStarted := time.Now()
		wrote, err := e.runNode(ctx, g, n)
		if err != nil {
			e.abort(ctx, g, order[i:], id, err)
			e.observer.NodeFinished(n.Kind, node.StatusFailed, time.Since(nodeStarted))
			return executor.Fail(id, failureMessage(err))
		}
		e.observer.NodeFinished(n.Kind, node.StatusCompleted, time.Since(nodeStarted))
		if wrote {
			written = append(written, id)
		}
	}
	return executor.Success(e.finalValue(ctx, g, order, written))
}

// runNode executes a single node. It reports whether the node wrote a value
// back to the graph store.
func (e *Executor) runNode(ctx context.Context, g *graph.Manager, n node.Node) (bool, error) {
	logger := ctxlog.FromContext(ctx).With("node", n.ID, "kind", n.Kind)

	spec, ok := e.reg.Kind(n.Kind)
	if !ok {
		return false, fmt.Errorf("unknown node kind '%s'", n.Kind)
	}
	if err := g.MarkRunning(ctx, n.ID); err != nil {
		return false, err
	}

	switch {
	case !spec.AcceptsInput:
		v, ok := n.Payload.(node.Value)
		if !ok {
			return false, fmt.Errorf("%s node carries a %s payload", n.Kind, n.Payload.Shape())
		}
		return false, g.MarkCompleted(ctx, n.ID, node.CloneValue(v.Data))

	case spec.Evaluates:
		code, ok := n.Payload.(node.Code)
		if !ok {
			return false, fmt.Errorf("%s node carries a %s payload", n.Kind, n.Payload.Shape())
		}
		input, err := executor.Aggregate(ctx, g, n.ID)
		if err != nil {
			return false, err
		}
		ev, err := e.reg.Evaluator(code.Language)
		if err != nil {
			return false, err
		}
		logger.Debug("Evaluating transform.", "language", code.Language)
		out, err := ev.Evaluate(ctx, code.Source, input)
		if err != nil {
			return false, err
		}
		return false, g.MarkCompleted(ctx, n.ID, out)

	case spec.WritesBack:
		preds, err := g.DependenciesOf(ctx, n.ID)
		if err != nil {
			return false, err
		}
		if len(preds) == 0 {
			logger.Debug("Sink has no inputs, leaving it untouched.")
			return false, g.MarkSkipped(ctx, n.ID)
		}
		v, err := executor.Aggregate(ctx, g, n.ID)
		if err != nil {
			return false, err
		}
		if err := e.sinks.UpdateNodePayload(ctx, n.ID, node.Value{Data: v}); err != nil {
			return false, fmt.Errorf("failed to write sink: %w", err)
		}
		logger.Debug("Sink written.")
		return true, g.MarkCompleted(ctx, n.ID, v)

	default:
		input, err := executor.Aggregate(ctx, g, n.ID)
		if err != nil {
			return false, err
		}
		return false, g.MarkCompleted(ctx, n.ID, input)
	}
}

// abort records the failure of the node at the head of rest and skips the
// nodes after it.
func (e *Executor) abort(ctx context.Context, g *graph.Manager, rest []string, failed string, cause error) {
	_ = g.MarkFailed(ctx, failed, cause)
	for _, id := range rest[1:] {
		_ = g.MarkSkipped(ctx, id)
		if n, ok := g.Node(ctx, id); ok {
			e.observer.NodeFinished(n.Kind, node.StatusSkipped, 0)
		}
	}
}

// finalValue is the value of the single written sink, a map of sink id to
// value when several sinks were written, and the output of the last node
// otherwise.
func (e *Executor) finalValue(ctx context.Context, g *graph.Manager, order, written []string) any {
	switch len(written) {
	case 0:
		if len(order) == 0 {
			return nil
		}
		v, _, _ := g.Output(ctx, order[len(order)-1])
		return v
	case 1:
		v, _, _ := g.Output(ctx, written[0])
		return v
	}
	values := make(map[string]any, len(written))
	for _, id := range written {
		values[id], _, _ = g.Output(ctx, id)
	}
	return values
}

// failureMessage keeps the message a transform raised and describes every
// other failure by its error text.
func failureMessage(err error) string {
	if errors.Is(err, context.Canceled) {
		return MsgCancelled
	}
	var runtimeErr *evaluator.RuntimeError
	if errors.As(err, &runtimeErr) && runtimeErr.Msg != "" {
		return runtimeErr.Msg
	}
	return err.Error()
}

type noopObserver struct{}

func (noopObserver) NodeFinished(node.Kind, node.Status, time.Duration) {}
func (noopObserver) RunFinished(executor.Outcome, time.Duration)         {}
