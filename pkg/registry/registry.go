package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/agentkit/pkg/domain"
	"github.com/aretw0/agentkit/pkg/schema"
)

// ErrNotFound is returned by Lookup for unregistered names.
// It matches domain.ErrUnknownAction.
var ErrNotFound = fmt.Errorf("action not found: %w", domain.ErrUnknownAction)

// ErrDuplicate is returned by New when two descriptors share a name.
var ErrDuplicate = errors.New("duplicate action")

// Handler runs an action against raw arguments.
// An error means the handler itself failed, as opposed to a failure envelope.
type Handler interface {
	Handle(ctx context.Context, args any) (domain.Envelope, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, args any) (domain.Envelope, error)

func (f HandlerFunc) Handle(ctx context.Context, args any) (domain.Envelope, error) {
	return f(ctx, args)
}

// Descriptor describes one action.
type Descriptor struct {
	Name        string
	Description string
	Schema      schema.Schema
	// Mutating actions change on-chain or custodial state.
	Mutating bool
	Handler  Handler
}

// Entry returns the wire-visible form of the descriptor.
func (d Descriptor) Entry() domain.ActionEntry {
	return domain.ActionEntry{
		Name:        d.Name,
		Description: d.Description,
		InputSchema: schema.JSONSchema(d.Schema),
		Mutating:    d.Mutating,
	}
}

// Registry is an immutable name to descriptor mapping.
// It is safe for concurrent use.
type Registry struct {
	byName map[string]Descriptor
	names  []string
}

// New builds a registry. Empty names, missing handlers and duplicates are errors.
func New(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]Descriptor, len(descriptors)),
		names:  make([]string, 0, len(descriptors)),
	}
	for i, d := range descriptors {
		if d.Name == "" {
			return nil, fmt.Errorf("descriptor %d: empty name", i)
		}
		if d.Handler == nil {
			return nil, fmt.Errorf("action %s: no handler", d.Name)
		}
		if _, ok := r.byName[d.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, d.Name)
		}
		r.byName[d.Name] = d
		r.names = append(r.names, d.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(descriptors ...Descriptor) *Registry {
	r, err := New(descriptors...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return d, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// List returns every descriptor sorted by name.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.byName[n])
	}
	return out
}

// Len returns the number of actions.
func (r *Registry) Len() int { return len(r.names) }

// Entries returns the wire-visible descriptions, sorted by name.
func (r *Registry) Entries() []domain.ActionEntry {
	out := make([]domain.ActionEntry, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.byName[n].Entry())
	}
	return out
}

// Select returns a registry restricted to the given names.
// No names selects everything.
func (r *Registry) Select(names ...string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}
	picked := make([]Descriptor, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		d, err := r.Lookup(n)
		if err != nil {
			return nil, err
		}
		picked = append(picked, d)
	}
	return New(picked...)
}
