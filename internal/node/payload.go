package node

import (
	"encoding/json"
	"fmt"
)

// Shape is the structural type of a payload.
type Shape int

const (
	// ShapeValue is a JSON-compatible value.
	ShapeValue Shape = iota
	// ShapeCode is transform source text.
	ShapeCode
)

// String returns the lowercase name of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeValue:
		return "value"
	case ShapeCode:
		return "code"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Payload is the data a node carries. It is implemented by Value and Code only.
type Payload interface {
	Shape() Shape
	clone() Payload
}

// Value is the payload of source and sink nodes. Data always holds the
// result of decoding JSON into an `any`: nil, bool, float64, string,
// []any or map[string]any.
type Value struct {
	Data any
}

// Shape implements Payload.
func (Value) Shape() Shape { return ShapeValue }

func (v Value) clone() Payload { return Value{Data: CloneValue(v.Data)} }

// Code is the payload of transform nodes: the body of a one-argument function
// (or an expression, depending on Language) over a variable named `input`.
type Code struct {
	Source string
	// Language selects the evaluator. Empty means the registry default.
	Language string
}

// Shape implements Payload.
func (Code) Shape() Shape { return ShapeCode }

func (c Code) clone() Payload { return c }

// NewValue normalizes v into a JSON value and wraps it as a payload.
func NewValue(v any) (Value, error) {
	data, err := NormalizeValue(v)
	if err != nil {
		return Value{}, err
	}
	return Value{Data: data}, nil
}

// NormalizeValue converts any JSON-serializable Go value into the canonical
// representation produced by encoding/json, so values compare equal no matter
// how they were built.
func NormalizeValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("value is not JSON-serializable: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("value is not JSON-serializable: %w", err)
	}
	return out, nil
}

// CloneValue deep-copies a normalized JSON value.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = CloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = CloneValue(val)
		}
		return out
	default:
		return v
	}
}
