package models

// FeatureSchema is the column order the regression model was trained with.
var FeatureSchema = []string{"RSI", "ROC", "Volume"}

// FeatureVector is the fixed-order model input.
type FeatureVector struct {
	RSI    float64 `json:"RSI"`
	ROC    float64 `json:"ROC"`
	Volume float64 `json:"Volume"`
}

// Values returns the vector in FeatureSchema order.
func (f FeatureVector) Values() []float64 {
	return []float64{f.RSI, f.ROC, f.Volume}
}
