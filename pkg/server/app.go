package server

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"StockPredict/internal/repository"
	"StockPredict/internal/service/ratelimit"
	"StockPredict/pkg/config"
	xhttp "StockPredict/pkg/http"
	"StockPredict/pkg/http/middleware"
	applogger "StockPredict/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// App encapsulates the application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	store      *repository.FileModelStore
	limiter    *ratelimit.Limiter
	httpServer *xhttp.Server
}

// New builds the HTTP server from the handler and config.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	reg *prometheus.Registry,
	store *repository.FileModelStore,
	handler xhttp.Handler,
	limiter *ratelimit.Limiter,
) *App {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(reg, cfg.Metrics.Path, cfg.Server.SlowThreshold))
	}
	if limiter != nil {
		opts = append(opts, xhttp.WithMiddleware(rateLimitAPI(limiter)))
	}

	return &App{
		cfg:        cfg,
		l:          l,
		store:      store,
		limiter:    limiter,
		httpServer: xhttp.NewServer(handler, l, opts...),
	}
}

// Echo exposes the router, mainly for tests.
func (a *App) Echo() *echo.Echo { return a.httpServer.Echo() }

// Run preloads the model, serves HTTP and blocks until SIGINT/SIGTERM.
// An absent model is logged, not fatal.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.store.Preload(ctx); err != nil {
		a.l.Warn("starting without a model; forecasts return 503", applogger.String("path", a.store.Path()))
	}

	done := make(chan struct{})
	defer close(done)
	if a.limiter != nil {
		go a.limiter.Run(time.Minute, done)
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

func (a *App) shutdown(ctx context.Context) error {
	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.l.Info("shutdown complete")
	return nil
}

// rateLimitAPI limits only /api routes so probes and scrapes are never throttled.
func rateLimitAPI(l *ratelimit.Limiter) echo.MiddlewareFunc {
	limited := middleware.RateLimit(l)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		wrapped := limited(next)
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Path(), "/api/") {
				return wrapped(c)
			}
			return next(c)
		}
	}
}
