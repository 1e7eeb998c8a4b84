// Package schema provides the field-constraint validation used by every action.
//
// A Schema is an ordered list of fields. Each field names a Type (built-in
// primitives, slices, objects, unions of primitives or custom validators),
// whether it is required, and optional numeric bounds. Validation walks the
// fields in declaration order and stops at the first violated constraint.
//
// Basic usage:
//
//	s := schema.Schema{
//	    schema.Required("symbol", schema.String()),
//	    schema.Optional("slippage", schema.Float()).WithRange(0, 100),
//	    schema.Optional("amount", schema.Union(schema.String(), schema.Float())),
//	}
//
//	if err := schema.Validate(s, data); err != nil {
//	    // err is a *ValidationError: MissingField, WrongType or OutOfRange
//	}
//
// Schemas are usually reflected from the Go input struct of an action:
//
//	type FundingRateInput struct {
//	    Symbol string `json:"symbol" jsonschema:"required" jsonschema_description:"Market symbol"`
//	}
//
//	s, err := schema.Reflect(FundingRateInput{})
//
// Schemas can also be parsed from configuration type strings ("string", "int",
// "float", "bool", "[string]", "string|float") through ParseFields.
package schema
