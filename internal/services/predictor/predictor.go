package predictor

import (
	"context"
	"fmt"
	"math"

	"StockPredict/internal/domain/models"
	domsvc "StockPredict/internal/domain/service"
)

// Predict runs the handle on the feature vector and returns element 0 of its
// output as the predicted fractional return. Every failure, including a panic
// inside the handle, comes back as ErrPredictionFailure.
func Predict(ctx context.Context, h domsvc.ModelHandle, fv models.FeatureVector) (pred float64, err error) {
	if h == nil {
		return 0, fmt.Errorf("%w: no model handle", domsvc.ErrPredictionFailure)
	}

	defer func() {
		if r := recover(); r != nil {
			pred = 0
			err = fmt.Errorf("%w: model panicked: %v", domsvc.ErrPredictionFailure, r)
		}
	}()

	out, err := h.Predict(ctx, fv.Values())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domsvc.ErrPredictionFailure, err)
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("%w: model returned no values", domsvc.ErrPredictionFailure)
	}
	if math.IsNaN(out[0]) || math.IsInf(out[0], 0) {
		return 0, fmt.Errorf("%w: model returned non-finite value %v", domsvc.ErrPredictionFailure, out[0])
	}
	return out[0], nil
}
