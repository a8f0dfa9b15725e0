// Package session defines the core interfaces for creating and managing an
// editing session: a graph store together with the runner that executes it.
// It abstracts away the details of where the graph lives and how it runs.
package session

import (
	"context"

	"github.com/vk/flowgrid/internal/executor"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/topologystore"
)

// SessionFactory creates a Session. Different implementations can back the
// graph and the runner differently.
type SessionFactory interface {
	NewSession(ctx context.Context, reg *registry.Registry) (Session, error)
}

// Session owns one pipeline graph and runs it.
type Session interface {
	// Graph returns the store holding the session's pipeline.
	Graph() topologystore.Store
	// Run snapshots the graph and executes the snapshot.
	Run(ctx context.Context) (*executor.Result, error)
	// Close releases any resources held by the session. It accepts a context
	// to allow for graceful cleanup operations.
	Close(ctx context.Context) error
}
