// Package nodestore defines the interface for the mutable, per-run state of
// pipeline nodes: status, output and error.
//
// # Why Node Store Exists
//
// The node store keeps **run state** apart from the **graph structure** held
// by topologystore. A run reads an immutable snapshot of the structure and
// records everything it learns about each node here, so the editor's graph is
// only ever touched by the explicit sink write-back.
//
// # Lifecycle and Usage
//
// The node store is:
//  1. **Created** fresh for each run
//  2. **Mutated** by the runner as nodes move through their states
//  3. **Read** to aggregate predecessor outputs and to build the run trace
//  4. **Discarded** with the run's result
//
// # State Transitions
//
// Nodes follow this lifecycle:
//
//	Pending → Running → Completed (with output) OR Failed (with error)
//	Pending → Skipped (the run aborted before reaching the node)
package nodestore

import (
	"context"

	"github.com/vk/flowgrid/internal/node"
)

// Store is the interface for managing the run state of nodes.
//
// This interface does NOT manage graph structure. That responsibility belongs
// to topologystore.Store.
//
// Implementations MUST be safe for concurrent use; run state may be read for
// diagnostics while the run is still writing it.
type Store interface {
	// SetStatus updates the status of a node.
	SetStatus(ctx context.Context, id string, status node.Status) error

	// GetStatus returns the status of a node, StatusPending if none was set.
	GetStatus(ctx context.Context, id string) (node.Status, error)

	// SetOutput records the value a node produced.
	SetOutput(ctx context.Context, id string, output any) error

	// GetOutput returns the recorded output of a node. The second value is
	// false when no output was recorded, which differs from a null output.
	GetOutput(ctx context.Context, id string) (any, bool, error)

	// SetError records why a node failed.
	SetError(ctx context.Context, id string, nodeErr error) error

	// GetError returns the recorded error of a node, nil if it has none.
	GetError(ctx context.Context, id string) (error, error)
}
