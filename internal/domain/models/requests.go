package models

// ForecastRequest is the HTTP body of POST /api/forecast.
type ForecastRequest struct {
	Date             string   `json:"date"`
	RSI              *float64 `json:"rsi" validate:"required,gte=0,lte=100"`
	ROC              *float64 `json:"roc" validate:"required"`
	Volume           *float64 `json:"volume" validate:"required,gte=0"`
	CurrentPrice     *float64 `json:"current_price" validate:"omitempty,gt=0"`
	IncludeReference *bool    `json:"include_reference" default:"true"`
}
