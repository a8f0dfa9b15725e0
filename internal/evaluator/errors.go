package evaluator

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrParse indicates the source text is not a valid transform.
	ErrParse = errors.New("parse error")

	// ErrRuntime indicates the transform failed while running.
	ErrRuntime = errors.New("runtime error")

	// ErrTimeout indicates the transform ran past its time bound.
	ErrTimeout = errors.New("timeout")
)

// ParseError reports source text that could not be compiled.
type ParseError struct {
	Msg string
	Err error // Optional underlying error from the parser.
}

func (e *ParseError) Error() string {
	if e.Msg == "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", ErrParse, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrParse, e.Msg)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// RuntimeError reports an exception raised by the transform, or a result that
// is not a JSON value. Msg carries the original exception message.
type RuntimeError struct {
	Msg string
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRuntime, e.Msg)
}

func (e *RuntimeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRuntime}
	}
	return []error{ErrRuntime, e.Err}
}

// TimeoutError reports an evaluation that was interrupted at its time bound.
type TimeoutError struct {
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: transform exceeded %s", ErrTimeout, e.Limit)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }
