// Package core registers the node kinds every pipeline is built from.
package core

import (
	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the source, transform and sink kinds.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(registry.KindSpec{
		Kind:           node.KindSource,
		Shape:          node.ShapeValue,
		AcceptsInput:   false,
		ProducesOutput: true,
	})
	r.RegisterKind(registry.KindSpec{
		Kind:           node.KindTransform,
		Shape:          node.ShapeCode,
		AcceptsInput:   true,
		ProducesOutput: true,
		Evaluates:      true,
	})
	r.RegisterKind(registry.KindSpec{
		Kind:           node.KindSink,
		Shape:          node.ShapeValue,
		AcceptsInput:   true,
		ProducesOutput: false,
		WritesBack:     true,
	})
}
