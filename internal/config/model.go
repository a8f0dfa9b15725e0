package config

import (
	"fmt"

	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/registry"
)

// Pipeline is the unified, format-agnostic representation of a pipeline
// file. Nodes and Edges keep the order they were declared in.
type Pipeline struct {
	Nodes []*NodeSpec
	Edges []*EdgeSpec
}

// NodeSpec is one declared node.
type NodeSpec struct {
	ID   string
	Kind node.Kind
	// Value is the payload of value-shaped kinds.
	Value any
	// Code and Language are the payload of code-shaped kinds.
	Code     string
	Language string
}

// EdgeSpec is one declared edge.
type EdgeSpec struct {
	ID   string
	From string
	To   string
}

// Node converts the spec into a graph node, choosing the payload shape the
// registry declares for its kind. Unknown kinds get a value payload and are
// rejected by the store.
func (s *NodeSpec) Node(reg *registry.Registry) (node.Node, error) {
	n := node.Node{ID: s.ID, Kind: s.Kind}
	shape := node.ShapeValue
	if spec, ok := reg.Kind(s.Kind); ok {
		shape = spec.Shape
	}

	switch shape {
	case node.ShapeCode:
		if s.Value != nil {
			return node.Node{}, fmt.Errorf("node '%s': %s nodes take code, not a value", s.ID, s.Kind)
		}
		n.Payload = node.Code{Source: s.Code, Language: s.Language}
	default:
		if s.Code != "" || s.Language != "" {
			return node.Node{}, fmt.Errorf("node '%s': %s nodes take a value, not code", s.ID, s.Kind)
		}
		n.Payload = node.Value{Data: s.Value}
	}
	return n, nil
}

// Edge converts the spec into a graph edge.
func (s *EdgeSpec) Edge() node.Edge {
	return node.Edge{ID: s.ID, From: s.From, To: s.To}
}
