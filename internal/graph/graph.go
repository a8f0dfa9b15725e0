package graph

import (
	"context"
	"fmt"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/nodestore"
	"github.com/vk/flowgrid/internal/topologystore"
)

// Manager implements Graph over a snapshot and a node store.
type Manager struct {
	snap  *topologystore.Snapshot
	state nodestore.Store
}

var _ Graph = (*Manager)(nil)

// New creates a graph manager for one run.
func New(snap *topologystore.Snapshot, state nodestore.Store) *Manager {
	return &Manager{snap: snap, state: state}
}

func (m *Manager) Node(ctx context.Context, id string) (node.Node, bool) {
	return m.snap.Node(id)
}

func (m *Manager) DependenciesOf(ctx context.Context, id string) ([]string, error) {
	if _, ok := m.snap.Node(id); !ok {
		return nil, &topologystore.NotFoundError{Element: "node", ID: id}
	}
	return m.snap.Predecessors(id), nil
}

func (m *Manager) Output(ctx context.Context, id string) (any, bool, error) {
	return m.state.GetOutput(ctx, id)
}

func (m *Manager) MarkRunning(ctx context.Context, id string) error {
	ctxlog.FromContext(ctx).Debug("Node running.", "id", id)
	return m.state.SetStatus(ctx, id, node.StatusRunning)
}

func (m *Manager) MarkCompleted(ctx context.Context, id string, output any) error {
	ctxlog.FromContext(ctx).Debug("Node completed.", "id", id)
	if err := m.state.SetOutput(ctx, id, output); err != nil {
		return fmt.Errorf("failed to record output of node '%s': %w", id, err)
	}
	return m.state.SetStatus(ctx, id, node.StatusCompleted)
}

func (m *Manager) MarkFailed(ctx context.Context, id string, nodeErr error) error {
	ctxlog.FromContext(ctx).Debug("Node failed.", "id", id, "error", nodeErr)
	if err := m.state.SetError(ctx, id, nodeErr); err != nil {
		return fmt.Errorf("failed to record error of node '%s': %w", id, err)
	}
	return m.state.SetStatus(ctx, id, node.StatusFailed)
}

func (m *Manager) MarkSkipped(ctx context.Context, id string) error {
	ctxlog.FromContext(ctx).Debug("Node skipped.", "id", id)
	return m.state.SetStatus(ctx, id, node.StatusSkipped)
}

func (m *Manager) States(ctx context.Context) ([]NodeState, error) {
	states := make([]NodeState, 0, len(m.snap.Nodes))
	for _, n := range m.snap.Nodes {
		st := NodeState{ID: n.ID, Kind: n.Kind}
		var err error
		if st.Status, err = m.state.GetStatus(ctx, n.ID); err != nil {
			return nil, err
		}
		if st.Output, _, err = m.state.GetOutput(ctx, n.ID); err != nil {
			return nil, err
		}
		if st.Err, err = m.state.GetError(ctx, n.ID); err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	return states, nil
}
