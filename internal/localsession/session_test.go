package localsession

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/modules/core"
	"github.com/vk/flowgrid/modules/javascript"
)

func TestSession_RunWritesSinksBack(t *testing.T) {
	ctx := context.Background()
	reg := registry.New(&core.Module{}, &javascript.Module{})

	s, err := (&SessionFactory{}).NewSession(ctx, reg)
	require.NoError(t, err)
	defer s.Close(ctx)

	g := s.Graph()
	_, err = g.AddNode(ctx, node.Node{ID: "input", Kind: node.KindSource, Payload: node.Value{Data: map[string]any{"x": 2}}})
	require.NoError(t, err)
	_, err = g.AddNode(ctx, node.Node{ID: "double", Kind: node.KindTransform, Payload: node.Code{Source: "return {y: input.x * 2};"}})
	require.NoError(t, err)
	_, err = g.AddNode(ctx, node.Node{ID: "output", Kind: node.KindSink, Payload: node.Value{}})
	require.NoError(t, err)
	_, err = g.AddEdge(ctx, node.Edge{From: "input", To: "double"})
	require.NoError(t, err)
	_, err = g.AddEdge(ctx, node.Edge{From: "double", To: "output"})
	require.NoError(t, err)

	res, err := s.Run(ctx)
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Equal(t, map[string]any{"y": 4.0}, res.Value)

	out, ok := g.GetNode(ctx, "output")
	require.True(t, ok)
	assert.Equal(t, node.Value{Data: map[string]any{"y": 4.0}}, out.Payload)
}

func TestNewSession_RejectsIncompleteRegistry(t *testing.T) {
	_, err := (&SessionFactory{}).NewSession(context.Background(), registry.New(&core.Module{}))
	assert.ErrorContains(t, err, "registry validation failed")
}
