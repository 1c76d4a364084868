package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"bondvoyage/internal/health"
	"bondvoyage/pkg/audit"
	"bondvoyage/pkg/config"
	"bondvoyage/pkg/contracts"
	"bondvoyage/pkg/metrics"
	"bondvoyage/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

// Worker is a background loop that runs until ctx is cancelled.
type Worker func(ctx context.Context) error

type closer struct {
	name string
	fn   func() error
}

type Application struct {
	cfg              *config.Config
	metrics          *metrics.Metrics
	server           *http.Server
	idempotencyStore *middleware.InMemoryIdempotencyStore
	rateLimiter      *middleware.RateLimiter
	healthHandler    http.Handler
	appHandler       http.Handler

	workers map[string]Worker
	closers []closer
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewApplication(cfg *config.Config, m *metrics.Metrics) *Application {
	if m == nil {
		m = metrics.New(cfg.ServiceName)
	}
	return &Application{
		cfg:     cfg,
		metrics: m,
		workers: make(map[string]Worker),
	}
}

func (a *Application) Metrics() *metrics.Metrics {
	return a.metrics
}

// SetApp registers every handler on one router behind the full middleware chain.
func (a *Application) SetApp(handlers ...contracts.Handler) {
	a.setHealthHandler()
	a.setAppHandler(handlers)
	a.setAppServer()
}

// Go registers a worker started by Run and stopped on shutdown.
func (a *Application) Go(name string, w Worker) {
	a.workers[name] = w
}

// OnShutdown registers a cleanup step run after the server has stopped, in
// reverse registration order.
func (a *Application) OnShutdown(name string, fn func() error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

func (a *Application) setHealthHandler() {
	healthRouter := httprouter.New()
	health.NewHandler(a.cfg.Client.Mongo, a.cfg.Log).RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(a.cfg.Log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(a.cfg.Log)(healthHTTPHandler)
	a.healthHandler = healthHTTPHandler
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(handlers []contracts.Handler) {
	appRouter := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(appRouter)
	}

	a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
	a.rateLimiter = middleware.NewRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		middleware.ClientIP,
		a.cfg.Log,
	)

	var appHTTPHandler http.Handler = appRouter
	appHTTPHandler = middleware.Idempotency(a.idempotencyStore, middleware.IdempotencyHeader)(appHTTPHandler)
	appHTTPHandler = middleware.RequestTimeout(a.cfg.RequestTimeout,
		middleware.PathTimeout{Suffix: "/export", Timeout: a.cfg.ExportTimeout},
	)(appHTTPHandler)
	appHTTPHandler = audit.Middleware(appHTTPHandler)
	appHTTPHandler = middleware.RateLimit(a.rateLimiter)(appHTTPHandler)
	appHTTPHandler = middleware.ContentTypeValidation(a.cfg.Log)(appHTTPHandler)
	appHTTPHandler = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(appHTTPHandler)
	appHTTPHandler = a.metrics.Middleware(appHTTPHandler)
	appHTTPHandler = middleware.RequestLogging(a.cfg.Log)(appHTTPHandler)
	appHTTPHandler = middleware.Recovery(a.cfg.Log)(appHTTPHandler)
	a.appHandler = appHTTPHandler
	a.cfg.Log.Info("Application endpoints configured with full middleware stack")
}

func (a *Application) setAppServer() {
	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      a.Handler(),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

// Handler returns the routed mux: health, metrics and the application chain.
func (a *Application) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/metrics", a.metrics.Handler())
	mux.Handle("/", a.appHandler)
	return mux
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.startWorkers(ctx)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.stopWorkers()
			a.runClosers()
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) startWorkers(ctx context.Context) {
	for name, w := range a.workers {
		a.wg.Add(1)
		go func(name string, w Worker) {
			defer a.wg.Done()
			a.cfg.Log.Info("Background worker started", "worker", name)
			if err := w(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.cfg.Log.Error("Background worker stopped with error", "worker", name, "error", err)
				return
			}
			a.cfg.Log.Info("Background worker stopped", "worker", name)
		}(name, w)
	}
}

func (a *Application) stopWorkers() {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
}

func (a *Application) runClosers() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(); err != nil {
			a.cfg.Log.Error("Shutdown step failed", "step", c.name, "error", err)
		}
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Stopping background workers...")
	a.stopWorkers()
	a.idempotencyStore.Stop()
	a.rateLimiter.Stop()
	a.runClosers()
	a.cfg.Log.Info("Background workers stopped")

	a.cfg.Log.Info("Server stopped gracefully")
}
