// Package dispatch routes named action requests to registered handlers and
// renders every outcome as text a tool-calling host can display.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/agentkit/pkg/domain"
	"github.com/aretw0/agentkit/pkg/ports"
	"github.com/aretw0/agentkit/pkg/registry"
)

// Outcome classifies a dispatch.
type Outcome int

const (
	// OutcomeSuccess is a success envelope.
	OutcomeSuccess Outcome = iota
	// OutcomeFailure is a failure envelope produced by the handler.
	OutcomeFailure
	// OutcomeError means the handler itself failed or panicked.
	OutcomeError
	// OutcomeDenied means an interceptor blocked the call.
	OutcomeDenied
	// OutcomeUnknown means no action had that name.
	OutcomeUnknown
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeError:
		return "error"
	case OutcomeDenied:
		return "denied"
	case OutcomeUnknown:
		return "unknown"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// ErrNoJournal is returned by Recent when no journal is configured.
var ErrNoJournal = errors.New("no journal configured")

// Reply is the result of one dispatch. Text is what the host displays:
// the envelope as JSON indented by two spaces, or a plain error line.
type Reply struct {
	ID       string
	Action   string
	Outcome  Outcome
	Text     string
	Envelope *domain.Envelope
}

// OK reports whether the action succeeded.
func (r Reply) OK() bool { return r.Outcome == OutcomeSuccess }

// MarshalJSON emits {"id", "action", "ok", "result"} when an envelope exists,
// and {"id", "action", "ok", "error"} otherwise.
func (r Reply) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID     string           `json:"id,omitempty"`
		Action string           `json:"action"`
		OK     bool             `json:"ok"`
		Result *domain.Envelope `json:"result,omitempty"`
		Error  string           `json:"error,omitempty"`
	}
	w := wire{ID: r.ID, Action: r.Action, OK: r.OK(), Result: r.Envelope}
	if r.Envelope == nil {
		w.Error = r.Text
	}
	return json.Marshal(w)
}

// Dispatcher routes requests to the registry. Safe for concurrent use.
type Dispatcher struct {
	registry  *registry.Registry
	intercept Interceptor
	journal   ports.Journal
	metrics   *Metrics
	logger    *slog.Logger

	locker  ports.DistributedLocker
	lockTTL time.Duration
	lock    *keyedLock
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithInterceptor installs a policy hook that runs before every handler.
func WithInterceptor(i Interceptor) Option {
	return func(d *Dispatcher) {
		d.intercept = i
	}
}

// WithJournal records every known-action dispatch.
func WithJournal(j ports.Journal) Option {
	return func(d *Dispatcher) {
		d.journal = j
	}
}

// WithLocker serializes mutating actions across replicas.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(d *Dispatcher) {
		d.locker = l
		if ttl > 0 {
			d.lockTTL = ttl
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a dispatcher over reg.
func New(reg *registry.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		logger:   slog.New(slog.DiscardHandler),
		lockTTL:  DefaultLockTTL,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.lock = newKeyedLock(d.locker, d.lockTTL, d.logger.Warn)
	return d
}

// SharedLock reports whether mutating actions are serialized across replicas
// rather than only within this process.
func (d *Dispatcher) SharedLock() bool { return d.locker != nil }

// Registry returns the registry the dispatcher routes to.
func (d *Dispatcher) Registry() *registry.Registry { return d.registry }

// Handle dispatches a request value.
func (d *Dispatcher) Handle(ctx context.Context, req domain.DispatchRequest) Reply {
	return d.Dispatch(ctx, req.Action, req.Arguments)
}

// Dispatch runs one action. It never panics: unknown names, denials,
// handler errors and panics all become text replies.
func (d *Dispatcher) Dispatch(ctx context.Context, action string, args any) Reply {
	start := time.Now()
	reply := Reply{ID: uuid.NewString(), Action: action}

	desc, err := d.registry.Lookup(action)
	if err != nil {
		reply.Outcome = OutcomeUnknown
		reply.Text = "Unknown action: " + action
		d.finish(ctx, reply, start)
		return reply
	}

	call := Call{ID: reply.ID, Action: action, Mutating: desc.Mutating, Args: args}
	if d.intercept != nil {
		allowed, reason, err := d.intercept(ctx, call)
		switch {
		case err != nil:
			reply.Outcome, reply.Text = OutcomeError, "Error: "+err.Error()
		case !allowed:
			reply.Outcome, reply.Text = OutcomeDenied, "Error: "+reason
		}
		if err != nil || !allowed {
			d.finish(ctx, reply, start)
			return reply
		}
	}

	env, err := d.invoke(ctx, desc, args)
	if err != nil {
		reply.Outcome, reply.Text = OutcomeError, "Error: "+err.Error()
		d.finish(ctx, reply, start)
		return reply
	}

	raw, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		reply.Outcome, reply.Text = OutcomeError, "Error: encode reply: "+err.Error()
		d.finish(ctx, reply, start)
		return reply
	}
	reply.Envelope = &env
	reply.Text = string(raw)
	reply.Outcome = OutcomeFailure
	if env.OK() {
		reply.Outcome = OutcomeSuccess
	}
	d.finish(ctx, reply, start)
	return reply
}

func (d *Dispatcher) invoke(ctx context.Context, desc registry.Descriptor, args any) (env domain.Envelope, err error) {
	run := func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		env, err = desc.Handler.Handle(ctx, args)
		return err
	}
	if desc.Mutating {
		err = d.lock.with(ctx, SignerKey, run)
	} else {
		err = run(ctx)
	}
	return env, err
}

func (d *Dispatcher) finish(ctx context.Context, reply Reply, start time.Time) {
	elapsed := time.Since(start)
	d.metrics.observe(reply.Action, reply.Outcome, elapsed)

	level := slog.LevelInfo
	if reply.Outcome != OutcomeSuccess {
		level = slog.LevelWarn
	}
	d.logger.Log(ctx, level, "dispatch",
		"id", reply.ID,
		"action", reply.Action,
		"outcome", reply.Outcome.String(),
		"duration", elapsed,
	)

	if d.journal == nil || reply.Outcome == OutcomeUnknown {
		return
	}
	msg := reply.Text
	if reply.Envelope != nil {
		msg = reply.Envelope.Message()
	}
	rec := domain.Record{
		ID:       reply.ID,
		Action:   reply.Action,
		OK:       reply.OK(),
		Message:  msg,
		Duration: elapsed,
		At:       start.UTC(),
	}
	if err := d.journal.Append(context.WithoutCancel(ctx), rec); err != nil {
		d.logger.Warn("Failed to append journal record", "id", rec.ID, "err", err)
	}
}

// Recent returns the newest journal records.
func (d *Dispatcher) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	if d.journal == nil {
		return nil, ErrNoJournal
	}
	return d.journal.Recent(ctx, limit)
}
