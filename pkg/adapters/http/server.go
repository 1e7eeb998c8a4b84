package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/agentkit"
	"github.com/aretw0/agentkit/pkg/dispatch"
	"github.com/aretw0/agentkit/pkg/domain"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// Server serves the dispatch API.
type Server struct {
	dispatcher *dispatch.Dispatcher
	gatherer   prometheus.Gatherer
	logger     *slog.Logger
	openapi    []byte
}

// Option configures the handler.
type Option func(*Server)

// WithGatherer mounts GET /metrics for g.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewHandler creates the HTTP handler for d.
func NewHandler(d *dispatch.Dispatcher, opts ...Option) (http.Handler, error) {
	s := &Server{
		dispatcher: d,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := OpenAPI(d.Registry())
	if err != nil {
		return nil, err
	}
	if s.openapi, err = json.Marshal(doc); err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Post("/dispatch", s.Dispatch)
	r.Get("/actions", s.ListActions)
	r.Post("/actions/{name}", s.CallAction)
	r.Get("/journal", s.Journal)
	r.Get("/openapi.json", s.OpenAPI)
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Dispatch handles POST /dispatch with a {action, arguments} body.
func (s *Server) Dispatch(w http.ResponseWriter, r *http.Request) {
	var body domain.DispatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Dispatch: Invalid request body", "err", err)
		return
	}
	if body.Action == "" {
		http.Error(w, "Missing action", http.StatusBadRequest)
		return
	}
	s.reply(w, s.dispatcher.Handle(r.Context(), body))
}

// CallAction handles POST /actions/{name}; the body holds the arguments.
// An empty body means no arguments.
func (s *Server) CallAction(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	var args any
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.logger.Warn("CallAction: Invalid request body", "err", err)
			return
		}
	}
	s.reply(w, s.dispatcher.Dispatch(r.Context(), chi.URLParam(r, "name"), args))
}

func (s *Server) reply(w http.ResponseWriter, reply dispatch.Reply) {
	status := http.StatusOK
	switch reply.Outcome {
	case dispatch.OutcomeUnknown:
		status = http.StatusNotFound
	case dispatch.OutcomeDenied:
		status = http.StatusForbidden
	}
	writeJSON(w, status, reply, s.logger)
}

// ListActions handles GET /actions.
func (s *Server) ListActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dispatcher.Registry().Entries(), s.logger)
}

// Journal handles GET /journal?limit=N.
func (s *Server) Journal(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	recs, err := s.dispatcher.Recent(r.Context(), limit)
	if errors.Is(err, dispatch.ErrNoJournal) {
		http.Error(w, "Journal disabled", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Journal error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Journal read failed", "err", err)
		return
	}
	if recs == nil {
		recs = []domain.Record{}
	}
	writeJSON(w, http.StatusOK, recs, s.logger)
}

// OpenAPI handles GET /openapi.json.
func (s *Server) OpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.openapi)
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":     "agentkit-http",
		"version": strings.TrimSpace(agentkit.Version),
		"actions": s.dispatcher.Registry().Len(),
	}, s.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		logger.Info("HTTP Server listening", "address", addr)
		serverErrors <- srv.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logger.Info("Shutdown signal received, shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			if cerr := srv.Close(); cerr != nil {
				logger.Error("Error killing server", "err", cerr)
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}
