package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vk/flowgrid/internal/config"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/executor"
	"github.com/vk/flowgrid/internal/scheduler"
	"github.com/vk/flowgrid/internal/topologystore"
)

// ErrPipelineFailed is returned by Run when the pipeline ran to a failure
// outcome. The result itself has already been printed.
var ErrPipelineFailed = errors.New("pipeline run failed")

// Plan is the dry-run view of a pipeline: the order nodes would run in and
// which sources feed which sinks.
type Plan struct {
	Order      []string    `json:"order"`
	Components []Component `json:"components"`
}

// Component is the JSON form of scheduler.Component.
type Component struct {
	Nodes   []string `json:"nodes"`
	Sources []string `json:"sources"`
	Sinks   []string `json:"sinks"`
}

// Run executes the main application logic based on the provided configuration.
// In watch mode it blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.startHealthCheckServer()
	defer a.closeHealthCheckServer()

	if a.config.Watch {
		return a.watch(ctx)
	}

	res, err := a.RunOnce(ctx)
	if err != nil {
		return err
	}
	if res != nil && !res.OK() {
		return fmt.Errorf("%w at node '%s': %s", ErrPipelineFailed, res.Failure.Stage, res.Failure.Message)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// RunOnce loads the pipeline into a fresh session and either runs it or, in
// plan mode, prints its plan. The result of a run is printed as one JSON line
// and published when a publisher is configured. A nil result means nothing
// ran.
func (a *App) RunOnce(ctx context.Context) (*executor.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	p, err := a.loadPipeline(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := a.sessions.NewSession(ctx, a.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer sess.Close(ctx)

	if err := config.Apply(ctx, sess.Graph(), a.registry, p); err != nil {
		return nil, err
	}

	if a.config.Plan {
		return nil, a.printPlan(ctx, sess.Graph().Snapshot(ctx))
	}

	a.logger.Info("🚀 Starting pipeline...")
	res, runErr := sess.Run(ctx)
	if res == nil {
		return nil, runErr
	}
	if err := a.printResult(res); err != nil {
		return res, err
	}
	a.publish(ctx, res)

	if runErr != nil {
		return res, fmt.Errorf("execution failed: %w", runErr)
	}
	a.logger.Info("🏁 Pipeline finished.", "outcome", res.Outcome)
	return res, nil
}

func (a *App) printResult(res *executor.Result) error {
	if err := json.NewEncoder(a.outW).Encode(res); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

func (a *App) printPlan(ctx context.Context, snap *topologystore.Snapshot) error {
	order, err := scheduler.Order(ctx, snap)
	if err != nil {
		return err
	}
	plan := Plan{Order: order, Components: []Component{}}
	for _, c := range scheduler.Components(snap) {
		plan.Components = append(plan.Components, Component{
			Nodes:   nonNil(c.Nodes),
			Sources: nonNil(c.Sources),
			Sinks:   nonNil(c.Sinks),
		})
	}
	if plan.Order == nil {
		plan.Order = []string{}
	}

	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}

// publish delivers res to the configured publisher. A delivery failure is
// logged and does not fail the run.
func (a *App) publish(ctx context.Context, res *executor.Result) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(ctx, res); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to publish result.", "error", err)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
