// Package localsession provides a concrete implementation of the session.Session
// and session.SessionFactory interfaces for local, in-process execution.
package localsession

import (
	"context"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/executor"
	"github.com/vk/flowgrid/internal/inmemorytopology"
	"github.com/vk/flowgrid/internal/localexecutor"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/session"
	"github.com/vk/flowgrid/internal/topologystore"
)

// SessionFactory implements session.SessionFactory for local runs.
type SessionFactory struct {
	// Observer, when set, receives node and run completions of every session.
	Observer executor.Observer
}

// NewSession creates and configures a new local session.
func (f *SessionFactory) NewSession(ctx context.Context, reg *registry.Registry) (session.Session, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Creating local session.")

	if err := reg.ValidateRegistry(ctx); err != nil {
		return nil, err
	}

	store := inmemorytopology.New(reg)
	var opts []localexecutor.Option
	if f.Observer != nil {
		opts = append(opts, localexecutor.WithObserver(f.Observer))
	}

	return &Session{
		store:    store,
		executor: localexecutor.New(reg, store, opts...),
	}, nil
}

// Session implements session.Session for local runs.
type Session struct {
	store    *inmemorytopology.Store
	executor executor.Executor
}

// Graph returns the session's in-memory graph store.
func (s *Session) Graph() topologystore.Store {
	return s.store
}

// Run takes a snapshot and executes it. The live graph is not read again
// once the snapshot is taken; only sink results are written back to it.
func (s *Session) Run(ctx context.Context) (*executor.Result, error) {
	return s.executor.Run(ctx, s.store.Snapshot(ctx))
}

// Close is a no-op; an in-memory session holds no external resources.
func (s *Session) Close(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Local session closed.")
	return nil
}
