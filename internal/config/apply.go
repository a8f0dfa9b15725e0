package config

import (
	"context"
	"fmt"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/topologystore"
)

// Apply replays every node and then every edge of p into store, in
// declaration order, so a loaded pipeline passes exactly the validation an
// interactive edit would. It stops at the first rejected element.
func Apply(ctx context.Context, store topologystore.Store, reg *registry.Registry, p *Pipeline) error {
	logger := ctxlog.FromContext(ctx)

	for _, spec := range p.Nodes {
		n, err := spec.Node(reg)
		if err != nil {
			return &topologystore.ValidationError{Msg: err.Error(), Err: err}
		}
		if _, err := store.AddNode(ctx, n); err != nil {
			return fmt.Errorf("failed to add node '%s': %w", spec.ID, err)
		}
	}
	for _, spec := range p.Edges {
		if _, err := store.AddEdge(ctx, spec.Edge()); err != nil {
			return fmt.Errorf("failed to add edge %s -> %s: %w", spec.From, spec.To, err)
		}
	}

	logger.Debug("Pipeline applied to graph store.", "nodes", len(p.Nodes), "edges", len(p.Edges))
	return nil
}
