package domain

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MessageSuccess is the message of every successful envelope.
const MessageSuccess = "Success"

// CodeUnknown is attached to coded failures whose error carries no code.
const CodeUnknown = "UNKNOWN_ERROR"

// Envelope is the fixed-shape response of an action.
// A success carries every declared result field; a failure carries every
// declared field as null and the error text as message.
type Envelope struct {
	ok      bool
	fields  []string
	values  map[string]any
	message string
	code    string
}

// Success builds a successful envelope. Declared fields absent from values are null.
func Success(fields []string, values map[string]any) Envelope {
	v := make(map[string]any, len(fields))
	for _, f := range fields {
		v[f] = values[f]
	}
	return Envelope{ok: true, fields: fields, values: v, message: MessageSuccess}
}

// Failure builds a failed envelope with every declared field null.
func Failure(fields []string, message string) Envelope {
	return Envelope{fields: fields, message: message}
}

// WithCode attaches an error code. An empty code becomes CodeUnknown.
func (e Envelope) WithCode(code string) Envelope {
	if code == "" {
		code = CodeUnknown
	}
	e.code = code
	return e
}

// OK reports whether the envelope is a success.
func (e Envelope) OK() bool { return e.ok }

// Message returns "Success" or the failure text.
func (e Envelope) Message() string { return e.message }

// Code returns the attached error code, if any.
func (e Envelope) Code() string { return e.code }

// Fields returns the declared result fields.
func (e Envelope) Fields() []string { return e.fields }

// Value returns a result field. Failures always return nil.
func (e Envelope) Value(field string) any {
	if !e.ok {
		return nil
	}
	return e.values[field]
}

// Map returns the envelope as a plain map.
func (e Envelope) Map() map[string]any {
	out := make(map[string]any, len(e.fields)+2)
	for _, f := range e.fields {
		out[f] = e.Value(f)
	}
	out["message"] = e.message
	if e.code != "" {
		out["code"] = e.code
	}
	return out
}

// MarshalJSON emits the declared fields in order, then message, then code.
func (e Envelope) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, any]()
	for _, f := range e.fields {
		om.Set(f, e.Value(f))
	}
	om.Set("message", e.message)
	if e.code != "" {
		om.Set("code", e.code)
	}
	return json.Marshal(om)
}
