package executor

import (
	"encoding/json"
	"fmt"

	"github.com/vk/flowgrid/internal/graph"
)

// Outcome tells whether a run succeeded.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Failure names the node a run stopped at and why.
type Failure struct {
	Stage   string
	Message string
}

// Result is the outcome of one run.
type Result struct {
	Outcome Outcome
	// Value is the final value of a successful run.
	Value any
	// Failure is set when Outcome is OutcomeFailure.
	Failure *Failure

	// Trace holds the state every node reached during the run. It is kept
	// for diagnostics and is not part of the JSON form.
	Trace []graph.NodeState
}

// Success builds a successful result.
func Success(v any) *Result {
	return &Result{Outcome: OutcomeSuccess, Value: v}
}

// Fail builds a failed result.
func Fail(stage, message string) *Result {
	return &Result{Outcome: OutcomeFailure, Failure: &Failure{Stage: stage, Message: message}}
}

// OK reports whether the run succeeded.
func (r *Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

type resultJSON struct {
	Outcome Outcome         `json:"outcome"`
	Value   json.RawMessage `json:"value,omitempty"`
	Stage   string          `json:"stage,omitempty"`
	Message string          `json:"message,omitempty"`
}

// MarshalJSON encodes the result as {"outcome":"success","value":...} or
// {"outcome":"failure","stage":"...","message":"..."}.
func (r Result) MarshalJSON() ([]byte, error) {
	switch r.Outcome {
	case OutcomeSuccess:
		value, err := json.Marshal(r.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode result value: %w", err)
		}
		return json.Marshal(resultJSON{Outcome: r.Outcome, Value: value})
	case OutcomeFailure:
		if r.Failure == nil {
			return nil, fmt.Errorf("failure result has no failure details")
		}
		// stage and message are always present on the wire, even when empty.
		return json.Marshal(struct {
			Outcome Outcome `json:"outcome"`
			Stage   string  `json:"stage"`
			Message string  `json:"message"`
		}{r.Outcome, r.Failure.Stage, r.Failure.Message})
	default:
		return nil, fmt.Errorf("unknown outcome '%s'", r.Outcome)
	}
}

// UnmarshalJSON decodes either wire form produced by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var wire resultJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Outcome {
	case OutcomeSuccess:
		var v any
		if len(wire.Value) > 0 {
			if err := json.Unmarshal(wire.Value, &v); err != nil {
				return fmt.Errorf("failed to decode result value: %w", err)
			}
		}
		*r = Result{Outcome: OutcomeSuccess, Value: v}
	case OutcomeFailure:
		*r = Result{Outcome: OutcomeFailure, Failure: &Failure{Stage: wire.Stage, Message: wire.Message}}
	default:
		return fmt.Errorf("unknown outcome '%s'", wire.Outcome)
	}
	return nil
}
