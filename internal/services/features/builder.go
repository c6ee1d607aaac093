package features

import (
	"fmt"
	"time"

	"StockPredict/internal/domain/models"
	domsvc "StockPredict/internal/domain/service"
	"StockPredict/pkg/util"
)

// Build assembles the model input in schema order. The date is accepted for
// symmetry with the caller's inputs but the model does not consume it.
// No range checks happen here.
func Build(_ time.Time, rsi, roc, volume float64) models.FeatureVector {
	return models.FeatureVector{
		RSI:    rsi,
		ROC:    roc,
		Volume: volume,
	}
}

// BuildText parses numeric text strictly and then behaves like Build.
func BuildText(date time.Time, rsi, roc, volume string) (models.FeatureVector, error) {
	vals := make([]float64, 0, 3)
	for i, s := range []string{rsi, roc, volume} {
		v, err := util.ParseFloat(s)
		if err != nil {
			return models.FeatureVector{}, fmt.Errorf("%w: %s: %v", domsvc.ErrInvalidInput, models.FeatureSchema[i], err)
		}
		vals = append(vals, v)
	}
	return Build(date, vals[0], vals[1], vals[2]), nil
}
