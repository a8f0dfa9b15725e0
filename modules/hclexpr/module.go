// Package hclexpr runs transform code written as a single HCL expression over
// the variable `input`, evaluated with go-cty:
//
//	{ y = input.x * 2 }
//
// Only a fixed set of pure functions from the go-cty standard library is
// available, so expressions cannot reach outside their input.
package hclexpr

import (
	"time"

	"github.com/vk/flowgrid/internal/registry"
)

// Language is the tag transforms use to select this evaluator.
const Language = "hcl"

// Module implements the registry.Module interface for this package.
type Module struct {
	// Timeout bounds each evaluation. Zero selects evaluator.DefaultTimeout.
	Timeout time.Duration
}

// Register registers the HCL expression evaluator with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEvaluator(Language, New(m.Timeout))
}
