// Package api serves the reader-facing HTTP API and the writer endpoint.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/digkill/contos-diarios/internal/auth"
	"github.com/digkill/contos-diarios/internal/service"
	"github.com/digkill/contos-diarios/internal/writer"
)

const maxBodyBytes = 1 << 20

type Options struct {
	Addr             string
	WriteTimeout     time.Duration
	AuthDisabled     bool
	WriterAPIKey     string
	WriterRateLimit  int
	WriterRateWindow time.Duration
	MasterPassword   string
}

type Server struct {
	opts       Options
	log        *slog.Logger
	plans      *service.PlanService
	generation *service.GenerationService
	thirtyDay  *service.ThirtyDayService
	writer     *writer.Writer
	verifier   *auth.Verifier
	limiter    *RateLimiter
	router     *chi.Mux
}

// NewServer wires the routes. writer and limiter may be nil.
func NewServer(opts Options, log *slog.Logger, plans *service.PlanService, generation *service.GenerationService, thirtyDay *service.ThirtyDayService, w *writer.Writer, verifier *auth.Verifier, limiter *RateLimiter) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	s := &Server{
		opts:       opts,
		log:        log,
		plans:      plans,
		generation: generation,
		thirtyDay:  thirtyDay,
		writer:     w,
		verifier:   verifier,
		limiter:    limiter,
		router:     r,
	}

	r.Get("/healthz", s.handleHealth)
	r.Group(func(public chi.Router) {
		if limiter != nil && opts.WriterRateLimit > 0 {
			public.Use(limiter.Limit("writer", opts.WriterRateLimit, opts.WriterRateWindow))
		}
		public.Post("/v1/writer", s.handleWriter)
	})
	s.mountMasterAuth(r)

	r.Group(func(protected chi.Router) {
		protected.Use(auth.Middleware(verifier, log, auth.MiddlewareConfig{DisableAuth: opts.AuthDisabled}))
		protected.Get("/v1/dashboard", s.handleDashboard)
		protected.Route("/v1/plan", func(r chi.Router) {
			r.Get("/", s.handleGetPlan)
			r.Post("/upgrade", s.handleUpgrade)
			r.Post("/downgrade", s.handleDowngrade)
		})
		protected.Route("/v1/stories", func(r chi.Router) {
			r.Get("/", s.handleListStories)
			r.Post("/", s.handleGenerateStory)
			r.Get("/{id}", s.handleGetStory)
		})
		protected.Route("/v1/thirty-day", func(r chi.Router) {
			r.Get("/", s.handleGetThirtyDay)
			r.Post("/", s.handleStartThirtyDay)
			r.Delete("/", s.handleStopThirtyDay)
			r.Post("/tick", s.handleTick)
		})
	})
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) error {
	writeTimeout := s.opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 2 * time.Minute
	}
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error("api shutdown error", "err", err)
		}
	}()

	s.log.Info("api listening", "addr", s.opts.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api listen: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json", Message: "Pedido inválido."})
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
