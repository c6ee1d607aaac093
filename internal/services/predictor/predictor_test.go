package predictor

import (
	"context"
	"errors"
	"math"
	"testing"

	"StockPredict/internal/domain/models"
	domsvc "StockPredict/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handleFunc func(ctx context.Context, x []float64) ([]float64, error)

func (f handleFunc) Predict(ctx context.Context, x []float64) ([]float64, error) { return f(ctx, x) }

func sumHandle() handleFunc {
	return func(_ context.Context, x []float64) ([]float64, error) {
		s := 0.0
		for _, v := range x {
			s += v
		}
		return []float64{s}, nil
	}
}

func TestPredictEchoesSum(t *testing.T) {
	fv := models.FeatureVector{RSI: 61.5, ROC: -2.25, Volume: 1200}
	got, err := Predict(context.Background(), sumHandle(), fv)
	require.NoError(t, err)
	assert.Equal(t, 61.5-2.25+1200, got)
}

func TestPredictPassesSchemaOrder(t *testing.T) {
	var seen []float64
	h := handleFunc(func(_ context.Context, x []float64) ([]float64, error) {
		seen = x
		return []float64{0.01, 99}, nil
	})
	got, err := Predict(context.Background(), h, models.FeatureVector{RSI: 1, ROC: 2, Volume: 3})
	require.NoError(t, err)
	assert.Equal(t, 0.01, got)
	assert.Equal(t, []float64{1, 2, 3}, seen)
}

func TestPredictFailures(t *testing.T) {
	cases := map[string]domsvc.ModelHandle{
		"nil handle": nil,
		"handle error": handleFunc(func(context.Context, []float64) ([]float64, error) {
			return nil, errors.New("shape mismatch")
		}),
		"empty output": handleFunc(func(context.Context, []float64) ([]float64, error) {
			return []float64{}, nil
		}),
		"nan output": handleFunc(func(context.Context, []float64) ([]float64, error) {
			return []float64{math.NaN()}, nil
		}),
		"panic": handleFunc(func(context.Context, []float64) ([]float64, error) {
			panic("index out of range")
		}),
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			var (
				got float64
				err error
			)
			require.NotPanics(t, func() {
				got, err = Predict(context.Background(), h, models.FeatureVector{RSI: 50})
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, domsvc.ErrPredictionFailure))
			assert.Zero(t, got)
		})
	}
}

func TestPredictKeepsUnderlyingCause(t *testing.T) {
	cause := errors.New("inference service unavailable")
	h := handleFunc(func(context.Context, []float64) ([]float64, error) { return nil, cause })

	_, err := Predict(context.Background(), h, models.FeatureVector{})
	assert.True(t, errors.Is(err, cause))
}
