package graph

import (
	"context"

	"github.com/vk/flowgrid/internal/node"
)

// Graph is the stateful view of one pipeline run.
type Graph interface {
	// Node returns a node of the run's snapshot.
	Node(ctx context.Context, id string) (node.Node, bool)

	// DependenciesOf returns the ids of the nodes with an edge into id.
	DependenciesOf(ctx context.Context, id string) ([]string, error)

	// Output returns the value a node produced during this run. The second
	// value is false when the node has not produced one.
	Output(ctx context.Context, id string) (any, bool, error)

	MarkRunning(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string, output any) error
	MarkFailed(ctx context.Context, id string, nodeErr error) error
	MarkSkipped(ctx context.Context, id string) error

	// States returns the state of every node in insertion order.
	States(ctx context.Context) ([]NodeState, error)
}

// NodeState is what a run recorded about one node.
type NodeState struct {
	ID     string
	Kind   node.Kind
	Status node.Status
	// Output is set for completed nodes, including sinks, where it is the
	// value that was written back.
	Output any
	Err    error
}
