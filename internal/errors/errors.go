// Package errors defines the error taxonomy shared by the parser,
// optimizer, and interpreter: a single *Error type tagged by Kind, in
// the style of the teacher's SentraError (type + message + location).
package errors

import "fmt"

// Kind identifies which of the spec's named error conditions occurred.
type Kind string

const (
	// Parse-time (structural) errors.
	UnbalancedBrackets Kind = "UnbalancedBrackets"

	// Run-time (semantic) errors.
	OutOfBounds           Kind = "OutOfBounds"
	OutOfInputs           Kind = "OutOfInputs"
	MaxIterationsExceeded Kind = "MaxIterationsExceeded"

	// Internal optimizer invariant violations. These are programmer
	// errors in an optimizer pass, never expected from well-formed
	// input, and must never be silently swallowed.
	OptimizerInvariant Kind = "OptimizerInvariant"
)

// Error is the sole error type returned by the parser, optimizer, and
// interpreter.
type Error struct {
	Kind    Kind
	Message string

	// Position is the byte offset into the source where a parse error
	// was detected. Zero value (0) when not applicable.
	Position int

	// Pointer is the data-pointer value at the moment a runtime error
	// was detected. Zero value (0) when not applicable.
	Pointer int32
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnbalancedBrackets:
		return fmt.Sprintf("%s: %s (at byte %d)", e.Kind, e.Message, e.Position)
	case OutOfBounds:
		return fmt.Sprintf("%s: %s (pointer %d)", e.Kind, e.Message, e.Pointer)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Is reports whether e is non-nil and of the given kind. It takes a Kind,
// not an error, so it is called directly; the standard library's
// errors.Is does not use it.
func (e *Error) Is(kind Kind) bool { return e != nil && e.Kind == kind }

// NewUnbalancedBrackets reports a bracket-matching failure detected at
// the given byte offset into the source.
func NewUnbalancedBrackets(position int) *Error {
	return &Error{
		Kind:     UnbalancedBrackets,
		Message:  "unbalanced brackets",
		Position: position,
	}
}

// NewOutOfBounds reports an access outside [0, tape length).
func NewOutOfBounds(pointer int32) *Error {
	return &Error{
		Kind:    OutOfBounds,
		Message: "tape access out of bounds",
		Pointer: pointer,
	}
}

// NewOutOfInputs reports a Read with no bytes left to consume.
func NewOutOfInputs() *Error {
	return &Error{
		Kind:    OutOfInputs,
		Message: "input exhausted",
	}
}

// NewMaxIterationsExceeded reports that the interpreter's iteration
// budget was exhausted before the program halted.
func NewMaxIterationsExceeded(limit uint64) *Error {
	return &Error{
		Kind:    MaxIterationsExceeded,
		Message: fmt.Sprintf("exceeded %d iterations", limit),
	}
}

// NewOptimizerInvariant reports an internal invariant violation in one
// of the optimizer passes — a bug in this repository, not in the input.
func NewOptimizerInvariant(message string) *Error {
	return &Error{
		Kind:    OptimizerInvariant,
		Message: message,
	}
}
