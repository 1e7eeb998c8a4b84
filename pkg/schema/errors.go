package schema

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind classifies a validation failure.
type Kind int

const (
	MissingField Kind = iota + 1
	WrongType
	OutOfRange
)

func (k Kind) String() string {
	switch k {
	case MissingField:
		return "MissingField"
	case WrongType:
		return "WrongType"
	case OutOfRange:
		return "OutOfRange"
	default:
		return "Unknown"
	}
}

// Sentinels matched by errors.Is against a *ValidationError of the same kind.
var (
	ErrMissingField = errors.New("missing field")
	ErrWrongType    = errors.New("wrong type")
	ErrOutOfRange   = errors.New("out of range")
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Kind   Kind
	Key    string // Field name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		if e.Reason != "" {
			return fmt.Sprintf("Missing required field: %s (%s)", e.Key, e.Reason)
		}
		return fmt.Sprintf("Missing required field: %s", e.Key)
	case WrongType:
		return fmt.Sprintf("Invalid type for field %s: %s", e.Key, e.Reason)
	case OutOfRange:
		return fmt.Sprintf("Field %s %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
}

// Is lets errors.Is match the kind sentinels.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrMissingField:
		return e.Kind == MissingField
	case ErrWrongType:
		return e.Kind == WrongType
	case ErrOutOfRange:
		return e.Kind == OutOfRange
	}
	return false
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errors }

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
