// Package executor defines the interface for the pipeline runner together with
// the result it produces.
package executor

import (
	"context"
	"time"

	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/topologystore"
)

// Executor runs a pipeline snapshot to completion.
//
// The returned error is reserved for structural problems that prevent any
// node from running, such as a cycle. Every failure, structural or not, is
// also described by the returned Result.
type Executor interface {
	Run(ctx context.Context, snap *topologystore.Snapshot) (*Result, error)
}

// SinkWriter receives the values computed for sink nodes. The graph store
// satisfies it, so results land in the editor's graph.
type SinkWriter interface {
	UpdateNodePayload(ctx context.Context, id string, p node.Payload) error
}

// Observer is notified as a run progresses. Implementations must be cheap and
// must not block.
type Observer interface {
	NodeFinished(kind node.Kind, status node.Status, elapsed time.Duration)
	RunFinished(outcome Outcome, elapsed time.Duration)
}
