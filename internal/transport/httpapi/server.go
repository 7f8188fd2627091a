// Package httpapi exposes the sign-in flow over HTTP: POST /login/ with the
// form fields username and password.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/alexisbeaulieu97/signin/internal/logger"
	"github.com/alexisbeaulieu97/signin/internal/ports"
)

const (
	defaultRequestTimeout = 15 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// Config holds runtime options for the login API server.
type Config struct {
	Address        string
	Authenticator  ports.Authenticator
	Logger         ports.Logger
	RequestTimeout time.Duration
	// Ready reports backend health for GET /healthz. Nil means always ready.
	Ready func(ctx context.Context) error
}

// New constructs the HTTP server with its middleware stack.
func New(cfg Config) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           Handler(cfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Handler returns the router without an http.Server around it.
func Handler(cfg Config) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNoOp()
	}
	log = log.With("component", "httpapi")

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	h := &handlers{authenticator: cfg.Authenticator, logger: log, ready: cfg.Ready, timeout: timeout}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(correlation)
	router.Use(requestLogger(log))
	router.Use(chimw.Recoverer)

	router.Get("/healthz", h.health)
	router.Post("/login/", h.login)
	router.Post("/login", h.login)

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server, log ports.Logger) error {
	if log == nil {
		log = logger.NewNoOp()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "login api listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	log.Info(shutdownCtx, "login api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
