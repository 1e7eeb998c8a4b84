package schema

import "fmt"

// FieldSpec is the configuration form of a Field.
type FieldSpec struct {
	Name        string   `yaml:"name" json:"name"`
	Type        string   `yaml:"type" json:"type"`
	Required    bool     `yaml:"required,omitempty" json:"required,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Min         *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max         *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Default     any      `yaml:"default,omitempty" json:"default,omitempty"`
}

// ParseFields builds a Schema from configuration specs, keeping their order.
func ParseFields(specs []FieldSpec) (Schema, error) {
	out := make(Schema, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("field %d: name is required", i)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("field %s: declared twice", spec.Name)
		}
		seen[spec.Name] = true

		t, err := ParseType(spec.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", spec.Name, err)
		}
		if spec.Min != nil && spec.Max != nil && *spec.Min > *spec.Max {
			return nil, fmt.Errorf("field %s: min %v exceeds max %v", spec.Name, *spec.Min, *spec.Max)
		}
		out = append(out, Field{
			Name:        spec.Name,
			Type:        t,
			Required:    spec.Required,
			Min:         spec.Min,
			Max:         spec.Max,
			Description: spec.Description,
			Default:     spec.Default,
		})
	}
	return out, nil
}
