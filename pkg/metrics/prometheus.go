package metrics

import (
	"StockPredict/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var modelStates = []models.ModelState{models.ModelUnloaded, models.ModelLoaded, models.ModelAbsent}

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	forecasts       *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	modelState      *prometheus.GaugeVec
	predictedReturn prometheus.Gauge
}

// NewWithRegistry registers the recorder on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	r := &Recorder{
		forecasts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpredict_forecasts_total",
				Help: "Forecast requests by outcome",
			},
			[]string{"outcome"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpredict_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		modelState: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpredict_model_state",
				Help: "1 for the current model handle state, 0 otherwise",
			},
			[]string{"state"},
		),
		predictedReturn: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "stockpredict_last_predicted_return",
				Help: "Most recent predicted next-day return",
			},
		),
	}
	r.RecordModelState(models.ModelUnloaded)
	return r
}

// RecordForecast counts a forecast outcome (ok, cached, invalid_input, model_unavailable, ...).
func (r *Recorder) RecordForecast(outcome string) {
	r.forecasts.WithLabelValues(outcome).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordModelState(state models.ModelState) {
	for _, s := range modelStates {
		v := 0.0
		if s == state {
			v = 1
		}
		r.modelState.WithLabelValues(string(s)).Set(v)
	}
}

func (r *Recorder) RecordPredictedReturn(v float64) {
	r.predictedReturn.Set(v)
}
