package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"StockPredict/internal/handler/api"
	"StockPredict/internal/repository"
	"StockPredict/internal/service/ratelimit"
	"StockPredict/internal/services/inference"
	"StockPredict/internal/usecase"
	"StockPredict/pkg/config"
	applogger "StockPredict/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, limiter *ratelimit.Limiter) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Model.Dir = filepath.Join(t.TempDir(), "model")
	cfg.Metrics.Enabled = true

	store := repository.NewFileModelStore(cfg.Model.Dir, cfg.Model.File, inference.NewDecoder(time.Second))
	uc := usecase.NewForecastUseCase(store, nil, usecase.ProjectionSettings{Horizon: 3, Step: 24 * time.Hour, BasePrice: 100}, nil)
	h := api.NewForecastEchoHandler(nil, uc)
	return New(cfg, applogger.Nop(), prometheus.NewRegistry(), store, h, limiter)
}

func get(a *App, path string) int {
	rec := httptest.NewRecorder()
	a.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code
}

func TestAppServesWithoutModel(t *testing.T) {
	a := newApp(t, nil)
	require.Error(t, a.store.Preload(context.Background()))

	assert.Equal(t, http.StatusOK, get(a, "/healthz"))
	assert.Equal(t, http.StatusServiceUnavailable, get(a, "/readyz"))
	assert.Equal(t, http.StatusServiceUnavailable, get(a, "/api/forecast?rsi=50&roc=0&volume=1"))
	assert.Equal(t, http.StatusOK, get(a, "/metrics"))
}

func TestAppRateLimitsOnlyAPI(t *testing.T) {
	a := newApp(t, ratelimit.New(0.001, 1))

	assert.Equal(t, http.StatusServiceUnavailable, get(a, "/api/model"))
	assert.Equal(t, http.StatusTooManyRequests, get(a, "/api/model"))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(a, "/healthz"))
	}
}
