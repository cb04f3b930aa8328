// Package httpapi exposes the secret lifecycle over HTTP: anonymous
// create/view/revoke endpoints with per-address rate limiting, plus a
// token-guarded ledger listing for operators.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hushdrop/hushdrop/internal/logging"
	"github.com/hushdrop/hushdrop/internal/server/config"
	"github.com/hushdrop/hushdrop/internal/server/services"
)

// Server wraps the HTTP listener and its routing table.
type Server struct {
	srv *http.Server
	log logging.Logger
}

func NewServer(cfg *config.Config, svc *services.SecretService, log logging.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.EndpointAddr,
			Handler:           NewRouter(cfg, svc, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// NewRouter builds the routing table. Public secret endpoints sit behind
// the per-address rate limiter; the ledger listing requires an admin token.
func NewRouter(cfg *config.Config, svc *services.SecretService, log logging.Logger) http.Handler {
	h := NewHandler(svc, cfg, log)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
			r.Post("/secrets", h.CreateSecret)
			r.Get("/secrets", h.ListSecrets)
			r.Get("/secrets/{token}", h.ViewSecret)
			r.Delete("/secrets/{token}", h.RevokeSecret)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuth([]byte(cfg.AdminSecret)))
			r.Get("/logs", h.RecentLogs)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "http server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
