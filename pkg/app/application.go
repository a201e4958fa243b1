package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"

	"staywise/pkg/config"
	"staywise/pkg/contracts"
	"staywise/pkg/middleware"
)

// Application owns the HTTP server, the shared middleware chain, and the
// resources that must be stopped on shutdown. Health endpoints are served
// outside the chain so probes are never rate limited or replayed.
type Application struct {
	cfg              *config.Config
	server           *http.Server
	idempotencyStore middleware.IdempotencyStore
	rateLimiter      *middleware.ClientRateLimiter
	closers          []io.Closer
}

func NewApplication(cfg *config.Config, health contracts.Handler, handlers ...contracts.Handler) *Application {
	appRouter := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(appRouter)
	}

	healthRouter := httprouter.New()
	health.RegisterRoutes(healthRouter)

	idempotencyStore := middleware.NewInMemoryIdempotencyStore(cfg.IdempotencyTTL)
	rateLimiter := middleware.NewClientRateLimiter(
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
		middleware.DefaultClientKeyExtractor,
		cfg.Log,
	)

	var handler http.Handler = appRouter
	handler = middleware.Idempotency(idempotencyStore, "")(handler)
	handler = middleware.RequestTimeout(cfg.RequestTimeout)(handler)
	handler = middleware.ClientRateLimit(rateLimiter)(handler)
	handler = middleware.ContentTypeValidation(cfg.Log)(handler)
	handler = middleware.MaxRequestSize(int64(cfg.MaxRequestSize))(handler)
	handler = middleware.RequestLogging(cfg.Log)(handler)
	handler = middleware.Recovery(cfg.Log)(handler)

	mux := http.NewServeMux()
	mux.Handle("/health", healthRouter)
	mux.Handle("/ready", healthRouter)
	mux.Handle("/", handler)

	return &Application{
		cfg: cfg,
		server: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		idempotencyStore: idempotencyStore,
		rateLimiter:      rateLimiter,
	}
}

// AddCloser registers a resource to close during shutdown, after the server
// has drained.
func (a *Application) AddCloser(c io.Closer) {
	a.closers = append(a.closers, c)
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests and
// releases resources.
func (a *Application) Run() {
	errCh := make(chan error, 1)
	go func() {
		a.cfg.Log.Info("HTTP server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.cfg.Log.Error("HTTP server failed", "error", err)
	case sig := <-sigCh:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Warn("HTTP server shutdown incomplete", "error", err)
	}

	a.idempotencyStore.Stop()
	a.rateLimiter.Stop()

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.cfg.Log.Warn("Failed to close resource", "error", err)
		}
	}

	a.cfg.Client.GracefulShutdown(a.cfg.Log)
	a.cfg.Log.Info("Shutdown complete")
}
