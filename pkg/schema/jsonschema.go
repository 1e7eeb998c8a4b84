package schema

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchema renders the schema as a JSON Schema object, the shape tool-calling
// hosts expect for an action's input.
func JSONSchema(s Schema) map[string]any {
	props := make(map[string]any, len(s))
	required := make([]string, 0, len(s))
	for _, f := range s {
		prop := typeDocument(f.Type)
		if f.Description != "" {
			prop["description"] = f.Description
		}
		if f.Min != nil {
			prop["minimum"] = *f.Min
		}
		if f.Max != nil {
			prop["maximum"] = *f.Max
		}
		if f.Default != nil {
			prop["default"] = f.Default
		}
		props[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}

	doc := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func typeDocument(t Type) map[string]any {
	switch tt := t.(type) {
	case *StringType:
		return map[string]any{"type": "string"}
	case *IntType:
		return map[string]any{"type": "integer"}
	case *FloatType:
		return map[string]any{"type": "number"}
	case *BoolType:
		return map[string]any{"type": "boolean"}
	case *ObjectType:
		return map[string]any{"type": "object"}
	case *SliceType:
		return map[string]any{"type": "array", "items": typeDocument(tt.elemType)}
	case *UnionType:
		oneOf := make([]any, len(tt.members))
		for i, m := range tt.members {
			oneOf[i] = typeDocument(m)
		}
		return map[string]any{"anyOf": oneOf}
	default:
		// any and custom validators carry no JSON Schema type.
		return map[string]any{}
	}
}

// Document returns the JSON Schema document of s.
func Document(s Schema) ([]byte, error) {
	return json.Marshal(JSONSchema(s))
}

// MarshalJSON serializes the schema as a JSON Schema document.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	for _, f := range s {
		if f.Type == nil {
			return nil, fmt.Errorf("field %s: type is nil", f.Name)
		}
	}
	return Document(s)
}

// CheckDocument compiles a JSON Schema document and reports whether it is usable.
func CheckDocument(raw []byte) error {
	if _, err := jsonschema.CompileString("action.json", string(raw)); err != nil {
		return fmt.Errorf("invalid schema document: %w", err)
	}
	return nil
}

// Check renders s and compiles the resulting document.
func Check(s Schema) error {
	raw, err := s.MarshalJSON()
	if err != nil {
		return err
	}
	return CheckDocument(raw)
}
