package inference

import (
	"context"
	"fmt"

	domsvc "StockPredict/internal/domain/service"
)

// LinearModel is an ordinary least-squares regressor: y = intercept + w·x.
type LinearModel struct {
	intercept    float64
	coefficients []float64
}

func NewLinearModel(intercept float64, coefficients []float64) *LinearModel {
	w := make([]float64, len(coefficients))
	copy(w, coefficients)
	return &LinearModel{intercept: intercept, coefficients: w}
}

func (m *LinearModel) Predict(_ context.Context, x []float64) ([]float64, error) {
	if len(x) != len(m.coefficients) {
		return nil, fmt.Errorf("linear model expects %d features, got %d", len(m.coefficients), len(x))
	}
	y := m.intercept
	for i, w := range m.coefficients {
		y += w * x[i]
	}
	return []float64{y}, nil
}

var _ domsvc.ModelHandle = (*LinearModel)(nil)
