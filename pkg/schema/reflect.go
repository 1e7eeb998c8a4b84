package schema

import (
	"encoding/json"
	"fmt"

	invopop "github.com/invopop/jsonschema"
)

var reflector = invopop.Reflector{
	AllowAdditionalProperties:  true,
	DoNotReference:             true,
	ExpandedStruct:             true,
	RequiredFromJSONSchemaTags: true,
}

// Reflect derives a Schema from a Go input struct.
// Field order follows the struct declaration. Supported tags:
//
//	json:"name"
//	jsonschema:"required,minimum=0,maximum=100,oneof_type=string;number,default=1"
//	jsonschema_description:"..."
func Reflect(v any) (Schema, error) {
	doc := reflector.Reflect(v)
	if doc == nil || doc.Properties == nil {
		return nil, fmt.Errorf("reflect %T: not a struct", v)
	}

	required := make(map[string]bool, len(doc.Required))
	for _, name := range doc.Required {
		required[name] = true
	}

	var out Schema
	for pair := doc.Properties.Oldest(); pair != nil; pair = pair.Next() {
		t, err := typeOf(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("reflect %T: field %s: %w", v, pair.Key, err)
		}
		f := Field{
			Name:        pair.Key,
			Type:        t,
			Required:    required[pair.Key],
			Description: pair.Value.Description,
			Default:     defaultValue(pair.Value.Default),
		}
		if n, ok := bound(pair.Value.Minimum); ok {
			f = f.WithMin(n)
		}
		if n, ok := bound(pair.Value.Maximum); ok {
			f = f.WithMax(n)
		}
		out = append(out, f)
	}
	return out, nil
}

// MustReflect is like Reflect but panics on error. Intended for package-level
// action declarations.
func MustReflect(v any) Schema {
	s, err := Reflect(v)
	if err != nil {
		panic(err)
	}
	return s
}

func typeOf(s *invopop.Schema) (Type, error) {
	if len(s.OneOf) > 0 {
		members := make([]Type, 0, len(s.OneOf))
		for _, m := range s.OneOf {
			t, err := typeOf(m)
			if err != nil {
				return nil, err
			}
			members = append(members, t)
		}
		return Union(members...), nil
	}

	switch s.Type {
	case "string":
		return String(), nil
	case "integer":
		return Int(), nil
	case "number":
		return Float(), nil
	case "boolean":
		return Bool(), nil
	case "object":
		return Object(), nil
	case "array":
		if s.Items == nil {
			return Slice(Any()), nil
		}
		elem, err := typeOf(s.Items)
		if err != nil {
			return nil, err
		}
		return Slice(elem), nil
	case "":
		return Any(), nil
	default:
		return nil, fmt.Errorf("unsupported json type %q", s.Type)
	}
}

func bound(n json.Number) (float64, bool) {
	if n == "" {
		return 0, false
	}
	f, err := n.Float64()
	return f, err == nil
}

func defaultValue(v any) any {
	if n, ok := v.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return v
}
