package di

import (
	"fmt"

	"StockPredict/internal/domain/repository"
	"StockPredict/internal/handler/api"
	internalrepo "StockPredict/internal/repository"
	"StockPredict/internal/service/ratelimit"
	"StockPredict/internal/services/inference"
	"StockPredict/internal/usecase"
	"StockPredict/pkg/cache"
	"StockPredict/pkg/config"
	applogger "StockPredict/pkg/logger"
	"StockPredict/pkg/metrics"
	"StockPredict/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the Prometheus registry shared by all collectors.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.NewWithRegistry(reg)
}

// ProvideModelStore creates the lazily loading model store.
func ProvideModelStore(cfg *config.Config, l *applogger.Logger, m repository.Metrics) *internalrepo.FileModelStore {
	s := internalrepo.NewFileModelStore(cfg.Model.Dir, cfg.Model.File, inference.NewDecoder(cfg.Model.Timeout))
	s.SetLogger(l)
	s.SetMetrics(m)
	return s
}

// ProvideForecastCache returns nil when caching is disabled. A Redis that
// cannot be reached degrades to memory only.
func ProvideForecastCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	if !cfg.Cache.Enabled {
		return nil, func() {}, nil
	}

	var svc cache.Service
	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			l.Warn("redis unavailable, using memory cache only", applogger.Error(err))
		} else {
			svc = cache.NewLayeredCache(rc, cfg.Cache.MemorySize, cfg.Cache.TTL)
		}
	}
	if svc == nil {
		svc = cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemorySize))
	}

	cleanup := func() {
		if err := svc.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}
	return svc, cleanup, nil
}

// ProvideForecastUseCase assembles the forecast pipeline.
func ProvideForecastUseCase(
	cfg *config.Config,
	store *internalrepo.FileModelStore,
	m repository.Metrics,
	c cache.Service,
	l *applogger.Logger,
) (*usecase.ForecastUseCase, error) {
	proj := usecase.ProjectionSettings{
		Horizon:   cfg.Projection.Horizon,
		Step:      cfg.Projection.Step,
		BasePrice: cfg.Projection.BasePrice,
	}
	if cfg.Projection.Anchor == config.AnchorFixed {
		at, err := cfg.AnchorTime()
		if err != nil {
			return nil, err
		}
		proj.FixedAnchor = at
	}

	uc := usecase.NewForecastUseCase(store, m, proj, l)
	if c != nil {
		uc.WithCache(c, cfg.Cache.TTL)
	}
	return uc, nil
}

// ProvideForecastHandler creates the Echo handler.
func ProvideForecastHandler(l *applogger.Logger, uc *usecase.ForecastUseCase) *api.ForecastEchoHandler {
	return api.NewForecastEchoHandler(l, uc)
}

// ProvideRateLimiter returns nil when rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	reg *prometheus.Registry,
	store *internalrepo.FileModelStore,
	h *api.ForecastEchoHandler,
	limiter *ratelimit.Limiter,
) *server.App {
	return server.New(cfg, l, reg, store, h, limiter)
}
