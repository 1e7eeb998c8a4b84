package schema

// Field is a single named constraint of a Schema.
type Field struct {
	Name        string
	Type        Type
	Required    bool
	Min         *float64
	Max         *float64
	Description string
	// Default is applied by callers for absent optional fields. Validation ignores it.
	Default any
}

// Required declares a mandatory field.
func Required(name string, t Type) Field {
	return Field{Name: name, Type: t, Required: true}
}

// Optional declares a field that may be absent.
func Optional(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// WithMin sets the inclusive lower bound.
func (f Field) WithMin(min float64) Field {
	f.Min = &min
	return f
}

// WithMax sets the inclusive upper bound.
func (f Field) WithMax(max float64) Field {
	f.Max = &max
	return f
}

// WithRange sets both inclusive bounds.
func (f Field) WithRange(min, max float64) Field {
	return f.WithMin(min).WithMax(max)
}

// Describe sets the human-readable description exported to tool-calling hosts.
func (f Field) Describe(desc string) Field {
	f.Description = desc
	return f
}

// WithDefault sets the value callers substitute when the field is absent.
func (f Field) WithDefault(v any) Field {
	f.Default = v
	return f
}

// Schema is an ordered list of field constraints.
// Order matters: validation reports the first failing field in declaration order.
type Schema []Field

// Lookup returns the field with the given name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns the field names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// WithDefaults returns a copy of the schema with defaults attached to the named fields.
// Unknown names are ignored.
func (s Schema) WithDefaults(defaults map[string]any) Schema {
	out := make(Schema, len(s))
	copy(out, s)
	for i, f := range out {
		if v, ok := defaults[f.Name]; ok {
			out[i].Default = v
		}
	}
	return out
}

// ApplyDefaults fills absent optional fields that declare a default.
// It returns a new map; data is never modified.
func (s Schema) ApplyDefaults(data map[string]any) map[string]any {
	out := make(map[string]any, len(data)+len(s))
	for k, v := range data {
		out[k] = v
	}
	for _, f := range s {
		if f.Default == nil {
			continue
		}
		if v, ok := out[f.Name]; !ok || v == nil {
			out[f.Name] = f.Default
		}
	}
	return out
}

// Validate checks if data conforms to the schema.
// It returns the first violation found, walking fields in declaration order.
// An explicit null counts as absent.
func Validate(schema Schema, data map[string]any) error {
	for _, field := range schema {
		if err := field.check(data); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAll checks every field and returns all violations as an AggregateError.
func ValidateAll(schema Schema, data map[string]any) error {
	var errs []error
	for _, field := range schema {
		if err := field.check(data); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidateFields validates only specific fields from data against the schema.
// Fields not declared in the schema are reported as missing.
func ValidateFields(schema Schema, data map[string]any, fields ...string) error {
	for _, name := range fields {
		field, ok := schema.Lookup(name)
		if !ok {
			return &ValidationError{Kind: MissingField, Key: name, Reason: "not defined in schema"}
		}
		field.Required = true
		if err := field.check(data); err != nil {
			return err
		}
	}
	return nil
}

func (f Field) check(data map[string]any) error {
	value, exists := data[f.Name]
	if !exists || value == nil {
		if f.Required {
			return &ValidationError{Kind: MissingField, Key: f.Name}
		}
		return nil
	}

	if f.Type != nil {
		if err := f.Type.Validate(value); err != nil {
			return &ValidationError{
				Kind:   WrongType,
				Key:    f.Name,
				Reason: err.Error(),
				Value:  value,
			}
		}
	}

	if f.Min == nil && f.Max == nil {
		return nil
	}
	n, ok := Number(value)
	if !ok {
		return nil
	}
	if f.Min != nil && n < *f.Min {
		return &ValidationError{
			Kind:   OutOfRange,
			Key:    f.Name,
			Reason: "must be >= " + formatBound(*f.Min),
			Value:  value,
		}
	}
	if f.Max != nil && n > *f.Max {
		return &ValidationError{
			Kind:   OutOfRange,
			Key:    f.Name,
			Reason: "must be <= " + formatBound(*f.Max),
			Value:  value,
		}
	}
	return nil
}
