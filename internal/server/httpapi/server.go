// Package httpapi is the HTTP boundary of the server: it parses requests
// into typed commands, calls the services, and renders typed results or
// errors. No business logic lives here.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"taskdesk/internal/logging"
	"taskdesk/internal/server/auth"
	"taskdesk/internal/server/services"
)

// Server hosts the REST API.
type Server struct {
	addr         string
	logger       logging.Logger
	auth         *services.AuthService
	tasks        *services.TaskService
	tokens       *auth.TokenManager
	cookieSecure bool
}

// NewServer wires the HTTP boundary to the services.
func NewServer(addr string, logger logging.Logger, authSvc *services.AuthService, taskSvc *services.TaskService, tokens *auth.TokenManager, cookieSecure bool) *Server {
	return &Server{
		addr:         addr,
		logger:       logger.With("module", "http_server"),
		auth:         authSvc,
		tasks:        taskSvc,
		tokens:       tokens,
		cookieSecure: cookieSecure,
	}
}

// Routes constructs the chi router containing all API endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh-access-token", s.handleRefresh)
			r.Post("/forgot-password", s.handleForgotPassword)
			r.Post("/reset-password/{token}", s.handleResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/logout", s.handleLogout)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateTask)
			r.Get("/", s.handleListTasks)
			r.Get("/my-tasks", s.handleMyTasks)
			r.Get("/created-by-me", s.handleCreatedByMe)
			r.Get("/{id}", s.handleGetTask)
			r.Patch("/{id}", s.handleUpdateTask)
			r.Delete("/{id}", s.handleDeleteTask)
			r.Post("/{id}/assign", s.handleAssignTask)
		})
	})

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
