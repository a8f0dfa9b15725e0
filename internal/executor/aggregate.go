package executor

import (
	"context"
	"fmt"

	"github.com/vk/flowgrid/internal/graph"
	"github.com/vk/flowgrid/internal/node"
)

// Aggregate collects the values a node receives from its direct predecessors.
// With one predecessor the value is passed on as is; with several it becomes
// an object keyed by predecessor id; with none it is null.
func Aggregate(ctx context.Context, g graph.Graph, id string) (any, error) {
	preds, err := g.DependenciesOf(ctx, id)
	if err != nil {
		return nil, err
	}

	switch len(preds) {
	case 0:
		return nil, nil
	case 1:
		v, err := upstream(ctx, g, id, preds[0])
		if err != nil {
			return nil, err
		}
		return node.CloneValue(v), nil
	}

	merged := make(map[string]any, len(preds))
	for _, p := range preds {
		v, err := upstream(ctx, g, id, p)
		if err != nil {
			return nil, err
		}
		merged[p] = node.CloneValue(v)
	}
	return merged, nil
}

func upstream(ctx context.Context, g graph.Graph, id, pred string) (any, error) {
	v, ok, err := g.Output(ctx, pred)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("node '%s' has no output for '%s'", pred, id)
	}
	return v, nil
}
