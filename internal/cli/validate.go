package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/agentkit/internal/config"
	"github.com/aretw0/agentkit/pkg/registry"
	"github.com/aretw0/agentkit/pkg/schema"
	"github.com/aretw0/agentkit/pkg/tool"
)

// Validate builds the configured catalog offline and compiles every input
// schema. It returns the checked registry.
func Validate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*registry.Registry, error) {
	offline := *cfg
	offline.Redis.Addr = ""

	kit, cleanup, err := BuildKit(ctx, &offline, logger, nil)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var errs []error
	for _, d := range kit.Registry().List() {
		if err := schema.Check(d.Schema); err != nil {
			errs = append(errs, fmt.Errorf("action %s: %w", d.Name, err))
		}
	}
	return kit.Registry(), errors.Join(errs...)
}

// CheckArguments parses words as the arguments of action and reports every
// schema violation at once. The handler is never called.
func CheckArguments(reg *registry.Registry, action string, words []string) error {
	d, err := reg.Lookup(action)
	if err != nil {
		return err
	}
	args, err := tool.ParseArguments(CallArguments(words), tool.WithSchema(d.Schema))
	if err != nil {
		return err
	}
	return schema.ValidateAll(d.Schema, args)
}
