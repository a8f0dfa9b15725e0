package topologystore

import (
	"errors"
	"fmt"

	"github.com/vk/flowgrid/internal/node"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrValidation indicates a mutation that would make the graph invalid.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a reference to a node or edge that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTypeMismatch indicates a payload whose shape does not suit the node kind.
	ErrTypeMismatch = errors.New("type mismatch")
)

// ValidationError describes a rejected mutation.
// Wraps ErrValidation for errors.Is() compatibility.
type ValidationError struct {
	Msg string
	Err error // Optional underlying error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Msg)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// NotFoundError names the missing element.
// Wraps ErrNotFound for errors.Is() compatibility.
type NotFoundError struct {
	Element string // "node" or "edge"
	ID      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s '%s' not found", e.Element, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// TypeMismatchError reports a payload of the wrong shape for a node.
// Wraps ErrTypeMismatch for errors.Is() compatibility.
type TypeMismatchError struct {
	ID   string
	Kind node.Kind
	Want node.Shape
	Got  node.Shape
}

func (e *TypeMismatchError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s node '%s' requires a %s payload, got %s", ErrTypeMismatch.Error(), e.Kind, e.ID, e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }
