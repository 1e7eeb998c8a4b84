package domain

import (
	"errors"
	"fmt"
)

// ErrParse is matched by every ParseError.
var ErrParse = errors.New("parse error")

// ErrUnknownAction is returned when an action name is not registered.
var ErrUnknownAction = errors.New("unknown action")

// ErrNotConfigured is returned when an operation needs a credential or endpoint that is not set.
var ErrNotConfigured = errors.New("not configured")

// ParseError reports malformed structured input.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "invalid input"
	}
	return fmt.Sprintf("invalid input: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// UpstreamError is any failure of an external service call.
type UpstreamError struct {
	Service string
	Op      string
	Status  int // HTTP status, 0 when not applicable
	Code    string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Service, e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ErrorCode implements Coder.
func (e *UpstreamError) ErrorCode() string { return e.Code }

// Coder is implemented by errors that carry a machine-readable code.
type Coder interface {
	ErrorCode() string
}

// CodeOf returns the first code found in err's chain, or "".
func CodeOf(err error) string {
	for err != nil {
		if c, ok := err.(Coder); ok && c.ErrorCode() != "" {
			return c.ErrorCode()
		}
		err = errors.Unwrap(err)
	}
	return ""
}
