// Package topologystore defines the interface for storing and editing the
// structure of a pipeline graph: its nodes, their payloads, and the edges
// between them.
//
// # Why Topology Store Exists
//
// The topology store is the single place where a pipeline graph is mutated.
// The editor adds and removes nodes and edges through it, and the runner
// writes sink results back through it. Everything else (sequencing, running,
// planning) works on an immutable Snapshot taken from the store, so a run
// never observes a half-applied edit.
//
// # Validation
//
// Every mutation is validated before it is committed. A rejected mutation
// leaves the graph untouched. Kind-specific rules (which payload shape a kind
// carries, which kinds may be connected) come from the registry.
//
// # Lifecycle and Usage
//
// A store is created once per editing session. It is populated either
// interactively or by replaying a pipeline file, and may be snapshotted any
// number of times. Runs read only their snapshot and may overlap with edits.
package topologystore

import (
	"context"

	"github.com/vk/flowgrid/internal/node"
)

// Store is the interface for managing the structure of a pipeline graph.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. Mutations are serialized;
// Snapshot must observe either all or none of any concurrent mutation.
//
// # Typical Implementation
//
// See internal/inmemorytopology for the reference in-memory implementation
// using maps, insertion-order slices and sync.RWMutex.
type Store interface {
	// AddNode commits a new node and returns its id.
	//
	// An empty id is replaced by a generated one. The call fails with a
	// ValidationError when the id is taken or malformed, the kind is unknown,
	// or the payload shape does not match the kind.
	AddNode(ctx context.Context, n node.Node) (string, error)

	// AddEdge commits a new edge and returns its id.
	//
	// Both endpoints must exist and differ, and the registry must allow an
	// edge between their kinds. Adding an edge for an ordered pair that is
	// already connected is a no-op returning the existing edge's id. An empty
	// id is replaced by a generated one.
	AddEdge(ctx context.Context, e node.Edge) (string, error)

	// UpdateNodePayload replaces a node's payload.
	//
	// Returns a NotFoundError when the node is absent and a TypeMismatchError
	// when the payload shape does not match the node's kind.
	UpdateNodePayload(ctx context.Context, id string, p node.Payload) error

	// RemoveNode deletes a node together with every edge touching it.
	RemoveNode(ctx context.Context, id string) error

	// RemoveEdge deletes a single edge.
	RemoveEdge(ctx context.Context, id string) error

	// GetNode returns a copy of a node. The second value reports whether the
	// node exists.
	GetNode(ctx context.Context, id string) (node.Node, bool)

	// Snapshot returns an immutable deep copy of the graph with nodes and
	// edges in insertion order.
	Snapshot(ctx context.Context) *Snapshot
}
