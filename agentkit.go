package agentkit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/agentkit/pkg/agent"
	"github.com/aretw0/agentkit/pkg/catalog"
	"github.com/aretw0/agentkit/pkg/dispatch"
	"github.com/aretw0/agentkit/pkg/ports"
	"github.com/aretw0/agentkit/pkg/registry"
)

// Kit is the high-level entry point: the agent context, the action registry
// and a dispatcher wired over them.
type Kit struct {
	agent      *agent.Context
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	metrics    *dispatch.Metrics
	logger     *slog.Logger
}

type settings struct {
	logger      *slog.Logger
	httpClient  *http.Client
	actions     []string
	httpActions []catalog.HTTPAction
	extra       []registry.Descriptor
	interceptor dispatch.Interceptor
	journal     ports.Journal
	locker      ports.DistributedLocker
	lockTTL     time.Duration
	registerer  prometheus.Registerer
}

// Option defines a functional option for configuring the Kit.
type Option func(*settings)

// WithLogger sets a custom structured logger for the kit and its upstream clients.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithHTTPClient replaces the HTTP client shared by the upstream clients.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) {
		s.httpClient = hc
	}
}

// WithActions serves only the named actions.
func WithActions(names ...string) Option {
	return func(s *settings) {
		s.actions = append(s.actions, names...)
	}
}

// WithHTTPActions adds config-declared HTTP actions to the catalog.
func WithHTTPActions(actions ...catalog.HTTPAction) Option {
	return func(s *settings) {
		s.httpActions = append(s.httpActions, actions...)
	}
}

// WithDescriptors adds custom actions to the catalog.
func WithDescriptors(ds ...registry.Descriptor) Option {
	return func(s *settings) {
		s.extra = append(s.extra, ds...)
	}
}

// WithInterceptor installs a policy hook that runs before every action.
func WithInterceptor(i dispatch.Interceptor) Option {
	return func(s *settings) {
		s.interceptor = i
	}
}

// WithJournal records every dispatch.
func WithJournal(j ports.Journal) Option {
	return func(s *settings) {
		s.journal = j
	}
}

// WithLocker serializes mutating actions across processes.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(s *settings) {
		s.locker = l
		s.lockTTL = ttl
	}
}

// WithMetrics registers dispatch metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *settings) {
		s.registerer = reg
	}
}

// New builds a Kit from cfg.
func New(cfg agent.Config, opts ...Option) (*Kit, error) {
	s := &settings{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}

	agentOpts := []agent.Option{agent.WithLogger(s.logger)}
	if s.httpClient != nil {
		agentOpts = append(agentOpts, agent.WithHTTPClient(s.httpClient))
	}
	ac, err := agent.New(cfg, agentOpts...)
	if err != nil {
		return nil, err
	}

	extra := s.extra
	if len(s.httpActions) > 0 {
		ds, err := catalog.HTTPDescriptors(ac, s.httpActions)
		if err != nil {
			return nil, fmt.Errorf("http actions: %w", err)
		}
		extra = append(extra, ds...)
	}
	reg, err := catalog.Registry(ac, extra, s.actions...)
	if err != nil {
		return nil, err
	}

	k := &Kit{agent: ac, registry: reg, logger: s.logger}

	dispatchOpts := []dispatch.Option{dispatch.WithLogger(s.logger)}
	if s.interceptor != nil {
		dispatchOpts = append(dispatchOpts, dispatch.WithInterceptor(s.interceptor))
	}
	if s.journal != nil {
		dispatchOpts = append(dispatchOpts, dispatch.WithJournal(s.journal))
	}
	if s.locker != nil {
		dispatchOpts = append(dispatchOpts, dispatch.WithLocker(s.locker, s.lockTTL))
	}
	if s.registerer != nil {
		if k.metrics, err = dispatch.NewMetrics(s.registerer); err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		dispatchOpts = append(dispatchOpts, dispatch.WithMetrics(k.metrics))
	}
	k.dispatcher = dispatch.New(reg, dispatchOpts...)
	return k, nil
}

// Dispatch runs one action by name.
func (k *Kit) Dispatch(ctx context.Context, action string, args any) dispatch.Reply {
	return k.dispatcher.Dispatch(ctx, action, args)
}

// Dispatcher returns the dispatcher, for transports.
func (k *Kit) Dispatcher() *dispatch.Dispatcher { return k.dispatcher }

// Registry returns the served actions.
func (k *Kit) Registry() *registry.Registry { return k.registry }

// Agent returns the upstream client context.
func (k *Kit) Agent() *agent.Context { return k.agent }

// Close releases upstream connections.
func (k *Kit) Close() {
	k.agent.Close()
}
