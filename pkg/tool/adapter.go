package tool

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/agentkit/pkg/domain"
	"github.com/aretw0/agentkit/pkg/registry"
	"github.com/aretw0/agentkit/pkg/schema"
)

// Spec is the static description of an adapter.
type Spec struct {
	Name        domain.ActionName
	Description string
	// Result lists the envelope's result fields in output order.
	Result []string
	// ErrorPrefix starts every failure message: "<ErrorPrefix>: <err>".
	ErrorPrefix string
	// Coded failures carry a code, domain.CodeUnknown when the error has none.
	Coded    bool
	Mutating bool
	// Defaults fill absent optional fields after validation.
	Defaults map[string]any
}

// Func is the single upstream operation behind an adapter.
// With more than one Result field it must return map[string]any.
type Func[In any] func(ctx context.Context, in In) (any, error)

// Adapter turns raw arguments into one typed call and an envelope.
type Adapter[In any] struct {
	spec   Spec
	schema schema.Schema
	call   Func[In]
}

// New builds an adapter whose schema is reflected from In.
func New[In any](spec Spec, call Func[In]) (*Adapter[In], error) {
	var zero In
	s, err := schema.Reflect(zero)
	if err != nil {
		return nil, fmt.Errorf("action %s: %w", spec.Name, err)
	}
	return NewWithSchema(spec, s, call)
}

// NewWithSchema builds an adapter over an explicit schema.
func NewWithSchema[In any](spec Spec, s schema.Schema, call Func[In]) (*Adapter[In], error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("adapter: empty name")
	}
	if call == nil {
		return nil, fmt.Errorf("action %s: no call", spec.Name)
	}
	if spec.ErrorPrefix == "" {
		spec.ErrorPrefix = "Error"
	}
	for name, v := range spec.Defaults {
		f, ok := s.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("action %s: default for undeclared field %s", spec.Name, name)
		}
		if f.Required {
			return nil, fmt.Errorf("action %s: default for required field %s", spec.Name, name)
		}
		if err := schema.ValidateFields(s, map[string]any{name: v}, name); err != nil {
			return nil, fmt.Errorf("action %s: default: %w", spec.Name, err)
		}
	}
	return &Adapter[In]{
		spec:   spec,
		schema: s.WithDefaults(spec.Defaults),
		call:   call,
	}, nil
}

// Must panics if err is not nil. Intended for catalog construction.
func Must[In any](a *Adapter[In], err error) *Adapter[In] {
	if err != nil {
		panic(err)
	}
	return a
}

// Spec returns the adapter's static description.
func (a *Adapter[In]) Spec() Spec { return a.spec }

// Schema returns the input schema, defaults attached.
func (a *Adapter[In]) Schema() schema.Schema { return a.schema }

// Invoke runs parse, validate, coerce, call and render. It never panics and
// never returns an error: every failure is a failure envelope.
func (a *Adapter[In]) Invoke(ctx context.Context, raw any) domain.Envelope {
	args, err := ParseArguments(raw, WithSchema(a.schema))
	if err != nil {
		return a.fail(err)
	}
	if err := schema.Validate(a.schema, args); err != nil {
		return a.fail(err)
	}

	var in In
	if err := decode(a.schema.ApplyDefaults(args), &in); err != nil {
		return a.fail(&domain.ParseError{Err: err})
	}

	result, err := a.safeCall(ctx, in)
	if err != nil {
		return a.fail(err)
	}
	return a.succeed(result)
}

// Handle implements registry.Handler.
func (a *Adapter[In]) Handle(ctx context.Context, raw any) (domain.Envelope, error) {
	return a.Invoke(ctx, raw), nil
}

// Descriptor returns the registry descriptor for this adapter.
func (a *Adapter[In]) Descriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:        string(a.spec.Name),
		Description: a.spec.Description,
		Schema:      a.schema,
		Mutating:    a.spec.Mutating,
		Handler:     a,
	}
}

func (a *Adapter[In]) safeCall(ctx context.Context, in In) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.call(ctx, in)
}

func (a *Adapter[In]) succeed(result any) domain.Envelope {
	switch len(a.spec.Result) {
	case 0:
		return domain.Success(nil, nil)
	case 1:
		return domain.Success(a.spec.Result, map[string]any{a.spec.Result[0]: result})
	}
	values, ok := result.(map[string]any)
	if !ok {
		return a.fail(fmt.Errorf("unexpected result type %T", result))
	}
	return domain.Success(a.spec.Result, values)
}

func (a *Adapter[In]) fail(err error) domain.Envelope {
	env := domain.Failure(a.spec.Result, fmt.Sprintf("%s: %v", a.spec.ErrorPrefix, err))
	if a.spec.Coded {
		env = env.WithCode(domain.CodeOf(err))
	}
	return env
}

func decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}
