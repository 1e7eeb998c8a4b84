package domain

import "time"

// DispatchRequest is a named action invocation from a host.
// Arguments stays raw: a mapping, a JSON string or a key=value string.
type DispatchRequest struct {
	Action    string `json:"action" yaml:"action" mapstructure:"action"`
	Arguments any    `json:"arguments,omitempty" yaml:"arguments,omitempty" mapstructure:"arguments"`
}

// ActionEntry is the wire-visible description of an action.
type ActionEntry struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	InputSchema map[string]any `json:"input_schema" yaml:"input_schema"`
	Mutating    bool           `json:"mutating,omitempty" yaml:"mutating,omitempty"`
}

// Record is a journal entry for one dispatch.
type Record struct {
	ID       string        `json:"id"`
	Action   string        `json:"action"`
	OK       bool          `json:"ok"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
	At       time.Time     `json:"at"`
}
