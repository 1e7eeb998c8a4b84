package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/agentkit"
	"github.com/aretw0/agentkit/internal/config"
	"github.com/aretw0/agentkit/pkg/adapters/memory"
	redisadapter "github.com/aretw0/agentkit/pkg/adapters/redis"
	"github.com/aretw0/agentkit/pkg/catalog"
	"github.com/aretw0/agentkit/pkg/dispatch"
	"github.com/aretw0/agentkit/pkg/persistence/middleware"
)

// Prompt is where mutating calls are confirmed when confirm is enabled.
// A nil Prompt disables confirmation, as servers have no terminal to ask on.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

// BuildKit wires the configured catalog, policy, journal and signer lock.
// The returned cleanup closes the Redis connection and upstream clients.
func BuildKit(ctx context.Context, cfg *config.Config, logger *slog.Logger, prompt *Prompt, extra ...agentkit.Option) (*agentkit.Kit, func(), error) {
	opts := []agentkit.Option{agentkit.WithLogger(logger)}
	if len(cfg.Actions) > 0 {
		opts = append(opts, agentkit.WithActions(cfg.Actions...))
	}

	if cfg.ActionsFile != "" {
		actions, err := catalog.LoadActions(cfg.ActionsFile)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, agentkit.WithHTTPActions(actions...))
	}

	var interceptors []dispatch.Interceptor
	if cfg.ReadOnly {
		interceptors = append(interceptors, dispatch.ReadOnly())
	}
	if cfg.Confirm && prompt != nil {
		interceptors = append(interceptors, dispatch.ConfirmMutating(dispatch.NewPromptConfirmer(prompt.In, prompt.Out)))
	}
	if len(interceptors) > 0 {
		opts = append(opts, agentkit.WithInterceptor(dispatch.MultiInterceptor(interceptors...)))
	}

	redact, err := middleware.NewRedactMiddleware(cfg.Secrets(), middleware.DefaultPatterns)
	if err != nil {
		return nil, nil, err
	}

	closers := []func(){}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Redis.Addr != "" {
		client, err := redisadapter.NewClient(cfg.Redis.Addr)
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		closers = append(closers, func() { _ = client.Close() })

		journalOpts := []redisadapter.Option{redisadapter.WithPrefix(cfg.Redis.Prefix + "journal:")}
		if cfg.Redis.JournalTTL > 0 {
			journalOpts = append(journalOpts, redisadapter.WithTTL(cfg.Redis.JournalTTL))
		}
		opts = append(opts,
			agentkit.WithJournal(middleware.Chain(redisadapter.NewJournal(client, journalOpts...), redact)),
			agentkit.WithLocker(redisadapter.NewLocker(client, cfg.Redis.Prefix+"lock:"), cfg.LockTTL),
		)
		logger.Debug("Using redis journal and signer lock", "addr", cfg.Redis.Addr)
	} else {
		// Mutating actions are still serialized within this process.
		opts = append(opts, agentkit.WithJournal(middleware.Chain(memory.NewJournal(cfg.Journal.Capacity), redact)))
	}

	kit, err := agentkit.New(cfg.Config, append(opts, extra...)...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, kit.Close)
	return kit, cleanup, nil
}
