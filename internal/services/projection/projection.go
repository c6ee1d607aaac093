package projection

import (
	"time"

	"StockPredict/internal/domain/models"
)

// Project compounds base by (1 + ret) once per step for horizon points,
// starting at anchor. The single prediction is held constant across the
// whole horizon; this is a visualization, not a multi-step forecast.
func Project(base, ret float64, horizon int, step time.Duration, anchor time.Time) []models.PricePoint {
	if horizon <= 0 {
		return []models.PricePoint{}
	}
	out := make([]models.PricePoint, horizon)
	price := base
	for i := 0; i < horizon; i++ {
		if i > 0 {
			price *= 1 + ret
		}
		out[i] = models.PricePoint{Date: anchor.Add(time.Duration(i) * step), Price: price}
	}
	return out
}

// Flat returns horizon points at base on the same dates Project would use.
func Flat(base float64, horizon int, step time.Duration, anchor time.Time) []models.PricePoint {
	return Project(base, 0, horizon, step, anchor)
}

// ProjectWithReference returns the compounding line and the flat reference
// line at base side by side.
func ProjectWithReference(base, ret float64, horizon int, step time.Duration, anchor time.Time) models.Trajectory {
	return models.Trajectory{
		Predicted: Project(base, ret, horizon, step, anchor),
		Reference: Flat(base, horizon, step, anchor),
	}
}
