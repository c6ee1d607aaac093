package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	domsvc "StockPredict/internal/domain/service"

	"github.com/sony/gobreaker"
)

// RemoteModel delegates inference to an HTTP model-serving endpoint.
// Wire format: {"instances": [[...]]} -> {"predictions": [...]}.
type RemoteModel struct {
	base     *HTTPServiceBase
	breaker  *gobreaker.CircuitBreaker
	attempts int
}

type remoteReq struct {
	Instances [][]float64 `json:"instances"`
}

type remoteResp struct {
	Predictions []float64 `json:"predictions"`
}

func NewRemoteModel(endpoint string, timeout time.Duration, attempts int) *RemoteModel {
	st := gobreaker.Settings{
		Name:     "inference:" + endpoint,
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &RemoteModel{
		base:     NewHTTPServiceBase(endpoint, timeout),
		breaker:  gobreaker.NewCircuitBreaker(st),
		attempts: attempts,
	}
}

func (m *RemoteModel) Predict(ctx context.Context, x []float64) ([]float64, error) {
	out, err := m.breaker.Execute(func() (interface{}, error) {
		var rr remoteResp
		if err := m.base.PostJSONWithRetry(ctx, remoteReq{Instances: [][]float64{x}}, &rr, m.attempts); err != nil {
			return nil, err
		}
		return rr.Predictions, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("inference service unavailable: %w", err)
		}
		return nil, err
	}
	return out.([]float64), nil
}

// State exposes the breaker state for diagnostics.
func (m *RemoteModel) State() string {
	return m.breaker.State().String()
}

var _ domsvc.ModelHandle = (*RemoteModel)(nil)
