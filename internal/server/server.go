// internal/server/server.go

// Package server wires the operation handlers, operational endpoints, and
// static assets into one HTTP server.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"activities-service/internal/audit"
	"activities-service/internal/cache"
	"activities-service/internal/common/config"
	"activities-service/internal/common/logger"
	"activities-service/internal/common/observability"
	activitysignup "activities-service/internal/handlers/activity-signup"
	activityunregister "activities-service/internal/handlers/activity-unregister"
	listactivities "activities-service/internal/handlers/list-activities"
	"activities-service/internal/notify"
	"activities-service/internal/registry"
)

// Options collects the server's collaborators. Cache, Notifier, Recorder,
// Observability, and Tracing are optional.
type Options struct {
	Config        config.ServerConfig
	Registry      *registry.Registry
	Cache         *cache.Listing
	Notifier      notify.Notifier
	Recorder      audit.Recorder
	Observability *observability.Observability
	Tracing       *observability.Tracing
	Logger        logger.Logger
}

// Server hosts the registration HTTP API.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// New builds the routing table and the HTTP server around it.
func New(opts Options) *Server {
	if opts.Notifier == nil {
		opts.Notifier = notify.NewNoOp()
	}
	if opts.Recorder == nil {
		opts.Recorder = audit.NewNoOp()
	}

	mux := http.NewServeMux()

	list := listactivities.NewHandler(opts.Registry, opts.Cache, opts.Logger)
	signup := activitysignup.NewHandler(activitysignup.LoadConfig(),
		opts.Registry, opts.Cache, opts.Notifier, opts.Recorder, opts.Logger)
	unregister := activityunregister.NewHandler(activityunregister.LoadConfig(),
		opts.Registry, opts.Cache, opts.Notifier, opts.Recorder, opts.Logger)

	mux.HandleFunc("GET /activities", list.Handle)
	mux.HandleFunc("POST /activities/{name}/signup", signup.Handle)
	mux.HandleFunc("DELETE /activities/{name}/unregister", unregister.Handle)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	if opts.Config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(opts.Config.StaticDir))
		mux.Handle("GET /static/", http.StripPrefix("/static/", fileServer))
		mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
		})
	}

	handler := withRequestContext(mux, opts.Observability, opts.Tracing, opts.Logger)

	return &Server{
		httpServer: &http.Server{
			Addr:         opts.Config.Addr(),
			Handler:      handler,
			ReadTimeout:  time.Duration(opts.Config.ReadTimeout) * time.Millisecond,
			WriteTimeout: time.Duration(opts.Config.WriteTimeout) * time.Millisecond,
		},
		logger: opts.Logger,
	}
}

// Handler exposes the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
