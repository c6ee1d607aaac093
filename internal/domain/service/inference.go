package service

import (
	"context"

	"StockPredict/internal/domain/models"
)

// ModelHandle is the inference boundary: one vector in, one vector out.
// Element 0 of the output is the prediction.
type ModelHandle interface {
	Predict(ctx context.Context, x []float64) ([]float64, error)
}

// Decoder turns raw artifact bytes into a ready handle.
type Decoder func(data []byte) (ModelHandle, models.ModelDescriptor, error)
