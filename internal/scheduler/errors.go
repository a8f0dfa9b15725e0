package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycleDetected indicates a graph whose edges form at least one cycle.
var ErrCycleDetected = errors.New("cycle detected")

// CycleError lists every node that sits on, or downstream of, a cycle.
// Wraps ErrCycleDetected for errors.Is() compatibility.
type CycleError struct {
	// Nodes are in insertion order.
	Nodes []string
}

func (e *CycleError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", ErrCycleDetected.Error(), strings.Join(e.Nodes, ", "))
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }
