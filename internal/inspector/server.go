// Package inspector serves a resettable JSON document over HTTP.
//
// The document is a reactive.Object wrapped in a resetref.Ref. Clients edit
// it with PUT and PATCH, ask whether it drifted from its baseline, and reset
// or rebase it. Every change is pushed to websocket subscribers as
// {"state": ..., "dirty": ...}.
//
// Routes:
//
//	GET    /state          current document
//	PUT    /state          replace the document
//	PATCH  /state          merge keys; null deletes a key
//	DELETE /state/{key}    delete one key
//	GET    /dirty          {"dirty": bool}
//	POST   /reset          restore the baseline (or the custom default)
//	POST   /resync         make the current document the new baseline
//	GET    /snapshot       the baseline
//	GET    /prefs/theme    {"theme": "light", "isDark": false}
//	PUT    /prefs/theme    {"theme": "dark"}
//	GET    /ws             websocket push
//	GET    /metrics        Prometheus metrics
//	GET    /healthz        liveness
package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/statekit/internal/metrics"
	"github.com/vango-dev/statekit/pkg/features/resetref"
	"github.com/vango-dev/statekit/pkg/pref"
	"github.com/vango-dev/statekit/pkg/reactive"
)

// DefaultTracerName is used when no tracer name is configured.
const DefaultTracerName = "statekit/inspector"

// Config configures a Server.
type Config struct {
	// Logger receives request and websocket logs (default: slog.Default()).
	Logger *slog.Logger

	// Metrics receives the inspector collectors (default: a fresh set).
	Metrics *metrics.Metrics

	// TracerName names the OpenTelemetry tracer resolved from the global
	// provider.
	TracerName string

	// Store holds application preferences served under /prefs.
	// Default: a fresh pref.AppStore.
	Store *pref.AppStore

	// Persister saves Store after every preference change. Nil keeps
	// preferences in memory only.
	Persister pref.Persister

	// CustomDefault, when set, is the reset target instead of the baseline.
	CustomDefault map[string]any
}

// Option configures a Server.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithAppStore serves store under /prefs and saves it through persister.
func WithAppStore(store *pref.AppStore, persister pref.Persister) Option {
	return func(c *Config) {
		c.Store = store
		c.Persister = persister
	}
}

// WithCustomDefault makes Reset restore d instead of the baseline.
func WithCustomDefault(d map[string]any) Option {
	return func(c *Config) {
		c.CustomDefault = d
	}
}

// Server is the inspector HTTP server.
type Server struct {
	// mu serialises every access to doc, ref and store.
	mu    sync.Mutex
	doc   *reactive.Object
	ref   *resetref.Ref[map[string]any]
	store *pref.AppStore

	persister pref.Persister
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	logger    *slog.Logger

	hub       *hub
	stopWatch func()
	router    chi.Router
}

// New creates a server whose baseline is initial.
func New(initial map[string]any, opts ...Option) (*Server, error) {
	config := Config{TracerName: DefaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Metrics == nil {
		config.Metrics = metrics.New()
	}
	if config.Store == nil {
		config.Store = pref.NewAppStore()
	}

	doc := reactive.NewObject(initial)
	refOpts := []resetref.Option[map[string]any]{
		resetref.WithName[map[string]any]("inspector"),
		resetref.WithLogger[map[string]any](config.Logger),
	}
	if config.CustomDefault != nil {
		refOpts = append(refOpts, resetref.WithCustomDefault(config.CustomDefault))
	}
	ref, err := resetref.ForObject(doc, refOpts...)
	if err != nil {
		return nil, fmt.Errorf("inspector: %w", err)
	}

	s := &Server{
		doc:       doc,
		ref:       ref,
		store:     config.Store,
		persister: config.Persister,
		metrics:   config.Metrics,
		tracer:    otel.Tracer(config.TracerName),
		logger:    config.Logger,
		hub:       newHub(config.Logger, config.Metrics),
	}

	s.stopWatch = reactive.Watch(s.publish)
	s.router = s.routes()
	return s, nil
}

// publish runs under the watcher on the goroutine that changed the
// document, so it must not take s.mu.
func (s *Server) publish() {
	view := stateView{State: s.doc.Get(), Dirty: s.ref.IsDirty()}
	s.metrics.SetDirty(view.Dirty)

	data, err := json.Marshal(view)
	if err != nil {
		s.logger.Error("inspector: encode update", "error", err)
		return
	}
	s.hub.publish(data)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close stops pushing updates and disconnects websocket clients.
func (s *Server) Close() {
	s.stopWatch()
	s.hub.close()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("inspector stopped")
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/ws", s.hub.handleWebSocket)

	r.Get("/state", s.handleGetState)
	r.Put("/state", s.traced("put_state", s.handlePutState))
	r.Patch("/state", s.traced("patch_state", s.handlePatchState))
	r.Delete("/state/{key}", s.traced("delete_key", s.handleDeleteKey))
	r.Get("/dirty", s.handleDirty)
	r.Post("/reset", s.traced("reset", s.handleReset))
	r.Post("/resync", s.traced("resync", s.handleResync))
	r.Get("/snapshot", s.handleSnapshot)

	r.Get("/prefs/theme", s.handleGetTheme)
	r.Put("/prefs/theme", s.traced("put_theme", s.handlePutTheme))

	return r
}
