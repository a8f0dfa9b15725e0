package topologystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/flowgrid/internal/node"
)

func TestSnapshot_Lookups(t *testing.T) {
	s := NewSnapshot(
		[]node.Node{
			{ID: "a", Kind: node.KindSource, Payload: node.Value{Data: 1.0}},
			{ID: "b", Kind: node.KindSource, Payload: node.Value{Data: 2.0}},
			{ID: "t", Kind: node.KindTransform, Payload: node.Code{Source: "return input;"}},
			{ID: "out", Kind: node.KindSink, Payload: node.Value{}},
		},
		[]node.Edge{
			{ID: "e1", From: "b", To: "t"},
			{ID: "e2", From: "a", To: "t"},
			{ID: "e3", From: "t", To: "out"},
		},
	)

	n, ok := s.Node("t")
	assert.True(t, ok)
	assert.Equal(t, node.KindTransform, n.Kind)
	_, ok = s.Node("missing")
	assert.False(t, ok)

	assert.Equal(t, 2, s.Position("t"))
	assert.Equal(t, -1, s.Position("missing"))

	assert.Equal(t, []string{"b", "a"}, s.Predecessors("t"))
	assert.Equal(t, []string{"out"}, s.Successors("t"))
	assert.Empty(t, s.Predecessors("a"))

	assert.Equal(t, []string{"a", "b"}, s.NodesOfKind(node.KindSource))
	assert.Equal(t, []string{"out"}, s.NodesOfKind(node.KindSink))
}

func TestErrors_Is(t *testing.T) {
	assert.ErrorIs(t, &ValidationError{Msg: "x"}, ErrValidation)
	assert.ErrorIs(t, &NotFoundError{Element: "node", ID: "x"}, ErrNotFound)
	assert.ErrorIs(t, &TypeMismatchError{ID: "x"}, ErrTypeMismatch)

	assert.EqualError(t, &NotFoundError{Element: "edge", ID: "e1"}, "edge 'e1' not found")
	assert.EqualError(t,
		&TypeMismatchError{ID: "s", Kind: node.KindSource, Want: node.ShapeValue, Got: node.ShapeCode},
		"type mismatch: source node 's' requires a value payload, got code")
}
