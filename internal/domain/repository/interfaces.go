package repository

import (
	"context"
	"time"

	"StockPredict/internal/domain/models"
	"StockPredict/internal/domain/service"
)

// ModelStore gives access to the process-wide model handle.
type ModelStore interface {
	// Model returns the cached handle, loading it on first use. A non-nil
	// error means the handle is absent.
	Model(ctx context.Context) (service.ModelHandle, error)
	Info() models.ModelInfo
}

type Metrics interface {
	RecordForecast(outcome string)
	RecordLatency(op string, seconds float64)
	RecordModelState(state models.ModelState)
	RecordPredictedReturn(v float64)
}

// Cache stores forecast results. Any Get error is treated as a miss.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}
