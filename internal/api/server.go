package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"snapgram/internal/comments"
	"snapgram/internal/config"
	"snapgram/internal/feed"
	"snapgram/internal/graph"
	"snapgram/internal/identity"
	"snapgram/internal/metrics"
	"snapgram/internal/nats"
	"snapgram/internal/posts"
	"snapgram/internal/profiles"
)

type contextKey string

const loggerContextKey = contextKey("logger")

type Server struct {
	Logger *slog.Logger
	Config *config.Config
	NATS   *nats.NATS

	Resolver *identity.Resolver
	Graph    *graph.Store
	Feed     *feed.Assembler
	Posts    *posts.Manager
	Comments *comments.Service
	Profiles *profiles.Service
	Activity *ActivityFeed

	server *http.Server
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "api.Server")

	r := chi.NewMux()

	logger := func(ctx context.Context) *slog.Logger {
		return ctx.Value(loggerContextKey).(*slog.Logger)
	}

	r.Use(
		// json content type
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				next.ServeHTTP(w, r)
			})
		},

		// Logging
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger := s.Logger.With("method", r.Method, "path", r.URL.Path)
				ctx := context.WithValue(r.Context(), loggerContextKey, logger)
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		},

		// Request timing and metrics
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				start := time.Now()
				sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

				next.ServeHTTP(sw, r)

				duration := time.Since(start)
				metrics.RequestDuration.WithLabelValues(
					r.Method, r.URL.Path, fmt.Sprintf("%d", sw.status),
				).Observe(duration.Seconds())
				logger(r.Context()).Info("request", "duration", duration, "status", sw.status)
			})
		},

		// Recovering panics and logging
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if rec := recover(); rec != nil {
						logger(r.Context()).Error("panic", "error", rec)
						w.WriteHeader(http.StatusInternalServerError)
					}
				}()
				next.ServeHTTP(w, r)
			})
		},
	)

	s.routes(r)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.NATS.HealthCheck(r.Context()); err != nil {
			logger(r.Context()).Error("health check failed", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	s.server = &http.Server{Addr: s.Config.Addr, Handler: r}

	return nil
}

func (s *Server) Run(ctx context.Context) error {
	s.Logger.Info("Starting API server", "addr", s.server.Addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
