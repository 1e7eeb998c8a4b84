package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/shlex"

	"github.com/aretw0/agentkit/pkg/domain"
	"github.com/aretw0/agentkit/pkg/schema"
)

// KwargsKey is the wrapper key some hosts use to pass all arguments as one string.
const KwargsKey = "kwargs"

// DefaultMaxInputSize bounds textual arguments when no WithMaxSize is given.
const DefaultMaxInputSize = 64 * 1024

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

type parser struct {
	maxSize int
	schema  schema.Schema
}

// ParseOption configures ParseArguments.
type ParseOption func(*parser)

// WithMaxSize rejects textual arguments longer than n bytes.
func WithMaxSize(n int) ParseOption {
	return func(p *parser) {
		if n > 0 {
			p.maxSize = n
		}
	}
}

// WithSchema lets the declared field types decide how key=value text is read:
// a value the field accepts as a string stays a string.
func WithSchema(s schema.Schema) ParseOption {
	return func(p *parser) { p.schema = s }
}

// ParseArguments normalizes raw action arguments into a mapping.
//
// Accepted forms:
//   - nil or an empty string: no arguments
//   - map[string]any (a lone "kwargs" entry is unwrapped and parsed again)
//   - a JSON object as string, []byte or json.RawMessage
//   - a double-encoded JSON object string
//   - a key=value string with shell-style quoting: symbol=SOL-PERP note="a b"
//
// Text is checked for size and UTF-8 and loses its control characters
// (newline, tab and carriage return are kept). In key=value text, true, false
// and plain decimal numbers are decoded unless WithSchema declares the field
// as a string. Every failure is a *domain.ParseError.
func ParseArguments(raw any, opts ...ParseOption) (map[string]any, error) {
	p := &parser{maxSize: DefaultMaxInputSize}
	for _, opt := range opts {
		opt(p)
	}
	return p.parse(raw)
}

func (p *parser) parse(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		if inner, ok := v[KwargsKey]; ok && len(v) == 1 {
			return p.parse(inner)
		}
		return v, nil
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, nil
	case json.RawMessage:
		return p.parseText(string(v), 0)
	case []byte:
		return p.parseText(string(v), 0)
	case string:
		return p.parseText(v, 0)
	default:
		return nil, &domain.ParseError{Err: fmt.Errorf("unsupported arguments type %T", raw)}
	}
}

// clean rejects oversized or non UTF-8 text and strips terminal control
// sequences. Oversized text is never truncated into a different object.
func (p *parser) clean(text string) (string, error) {
	if len(text) > p.maxSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(text), p.maxSize)
	}
	if !utf8.ValidString(text) {
		return "", ErrInvalidUTF8
	}
	if !strings.ContainsFunc(text, stripped) {
		return text, nil
	}
	return strings.Map(func(r rune) rune {
		if stripped(r) {
			return -1
		}
		return r
	}, text), nil
}

func stripped(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

func (p *parser) parseText(text string, depth int) (map[string]any, error) {
	clean, err := p.clean(text)
	if err != nil {
		return nil, &domain.ParseError{Input: text, Err: err}
	}
	clean = strings.TrimSpace(clean)

	switch {
	case clean == "" || clean == "null":
		return map[string]any{}, nil
	case strings.HasPrefix(clean, "{"):
		return p.parseJSON(clean, depth)
	case strings.HasPrefix(clean, `"`) && depth == 0:
		var inner string
		if err := json.Unmarshal([]byte(clean), &inner); err != nil {
			return nil, &domain.ParseError{Input: text, Err: err}
		}
		return p.parseText(inner, depth+1)
	default:
		return p.parseKeyValues(clean)
	}
}

func (p *parser) parseJSON(text string, depth int) (map[string]any, error) {
	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, &domain.ParseError{Input: text, Err: err}
	}
	switch v := decoded.(type) {
	case map[string]any:
		if inner, ok := v[KwargsKey]; ok && len(v) == 1 && depth == 0 {
			return p.parse(inner)
		}
		return v, nil
	case string:
		if depth > 0 {
			break
		}
		return p.parseText(v, depth+1)
	}
	return nil, &domain.ParseError{Input: text, Err: fmt.Errorf("expected a JSON object, got %T", decoded)}
}

// parseKeyValues splits shell-style key=value pairs.
func (p *parser) parseKeyValues(text string) (map[string]any, error) {
	parts, err := shlex.Split(text)
	if err != nil {
		return nil, &domain.ParseError{Input: text, Err: err}
	}
	out := make(map[string]any, len(parts))
	for _, part := range parts {
		key, value, ok := strings.Cut(part, "=")
		if !ok || key == "" {
			return nil, &domain.ParseError{Input: text, Err: fmt.Errorf("invalid key=value pair %q", part)}
		}
		out[key] = p.value(key, value)
	}
	return out, nil
}

func (p *parser) value(key, s string) any {
	if f, ok := p.schema.Lookup(key); ok && f.Type != nil && f.Type.Validate(s) == nil {
		return s
	}
	return scalar(s)
}

func scalar(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && looksNumeric(s) {
		return f
	}
	return s
}

// looksNumeric rejects forms ParseFloat accepts but hosts never mean as numbers.
func looksNumeric(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' && r != 'e' && r != 'E' {
			return false
		}
	}
	return true
}
