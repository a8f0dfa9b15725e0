// Package javascript runs transform code written as the body of a JavaScript
// function of one parameter, `input`, using the goja interpreter.
//
//	return { y: input.x * 2 };
package javascript

import (
	"time"

	"github.com/vk/flowgrid/internal/registry"
)

// Language is the tag transforms use to select this evaluator.
const Language = "js"

// Module implements the registry.Module interface for this package.
type Module struct {
	// Timeout bounds each evaluation. Zero selects evaluator.DefaultTimeout.
	Timeout time.Duration
	// MaxCallStackSize bounds recursion depth. Zero selects a default.
	MaxCallStackSize int
}

// Register registers the JavaScript evaluator with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEvaluator(Language, New(m.Timeout, m.MaxCallStackSize))
}
