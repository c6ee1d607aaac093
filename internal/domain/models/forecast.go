package models

import "time"

// PricePoint is one (date, price) sample of a trajectory.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// Trajectory holds the compounding projection and, optionally, a flat line at
// the starting price over the same dates.
type Trajectory struct {
	Predicted []PricePoint `json:"predicted"`
	Reference []PricePoint `json:"reference,omitempty"`
}

// ForecastInput is the validated raw input of one forecast.
type ForecastInput struct {
	Date             time.Time
	RSI              float64  `validate:"gte=0,lte=100"`
	ROC              float64
	Volume           float64  `validate:"gte=0"`
	CurrentPrice     *float64 `validate:"omitempty,gt=0"`
	IncludeReference bool
}

// Forecast is the result of one predict/project pass.
type Forecast struct {
	ID               string        `json:"id"`
	CreatedAt        time.Time     `json:"created_at"`
	Date             time.Time     `json:"date"`
	Features         FeatureVector `json:"features"`
	CurrentPrice     *float64      `json:"current_price,omitempty"`
	BasePrice        float64       `json:"base_price"`
	PredictedReturn  float64       `json:"predicted_return"`
	Trajectory       Trajectory    `json:"trajectory"`
	ModelFingerprint string        `json:"model_fingerprint"`
	Cached           bool          `json:"cached"`
}
