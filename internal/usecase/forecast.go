package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"StockPredict/internal/domain/models"
	domrepo "StockPredict/internal/domain/repository"
	domsvc "StockPredict/internal/domain/service"
	"StockPredict/internal/services/features"
	"StockPredict/internal/services/predictor"
	"StockPredict/internal/services/projection"
	"StockPredict/pkg/cache"
	applogger "StockPredict/pkg/logger"
	"StockPredict/pkg/util"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Forecast outcomes, used as metric labels.
const (
	OutcomeOK               = "ok"
	OutcomeCached           = "cached"
	OutcomeInvalidInput     = "invalid_input"
	OutcomeModelUnavailable = "model_unavailable"
	OutcomePredictionFailed = "prediction_failed"
)

// EarliestDate is the first analysis date accepted.
var EarliestDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// ProjectionSettings controls the shape of the projected trajectory.
type ProjectionSettings struct {
	Horizon   int
	Step      time.Duration
	BasePrice float64
	// FixedAnchor, when non-zero, replaces the forecast date as the first
	// trajectory date.
	FixedAnchor time.Time
}

// ForecastUseCase runs validate -> model -> features -> predict -> project.
type ForecastUseCase struct {
	store    domrepo.ModelStore
	metrics  domrepo.Metrics
	cache    domrepo.Cache
	cacheTTL time.Duration
	proj     ProjectionSettings
	validate *validator.Validate
	l        *applogger.Logger
	now      func() time.Time
}

func NewForecastUseCase(store domrepo.ModelStore, metrics domrepo.Metrics, proj ProjectionSettings, l *applogger.Logger) *ForecastUseCase {
	if l == nil {
		l = applogger.Nop()
	}
	return &ForecastUseCase{
		store:    store,
		metrics:  metrics,
		proj:     proj,
		validate: validator.New(),
		l:        l.With(applogger.String("component", "forecast")),
		now:      time.Now,
	}
}

// WithCache enables result caching. Entries are keyed by the model
// fingerprint, so they stay valid for the life of the process.
func (uc *ForecastUseCase) WithCache(c domrepo.Cache, ttl time.Duration) *ForecastUseCase {
	uc.cache = c
	uc.cacheTTL = ttl
	return uc
}

// Forecast validates in, predicts the next-day return and projects the
// trajectory. Errors wrap the domain sentinels.
func (uc *ForecastUseCase) Forecast(ctx context.Context, in models.ForecastInput) (*models.Forecast, error) {
	start := uc.now()
	defer func() { uc.recordLatency("forecast", start) }()

	if in.Date.IsZero() {
		in.Date = util.StartOfDay(start.UTC())
	}
	if err := uc.check(in); err != nil {
		uc.record(OutcomeInvalidInput)
		return nil, err
	}

	handle, err := uc.store.Model(ctx)
	if err != nil {
		uc.record(OutcomeModelUnavailable)
		return nil, err
	}
	fingerprint := uc.store.Info().Fingerprint

	fv := features.Build(in.Date, in.RSI, in.ROC, in.Volume)
	base := uc.proj.BasePrice
	if in.CurrentPrice != nil {
		base = *in.CurrentPrice
	}
	withReference := in.IncludeReference && in.CurrentPrice != nil

	key := cacheKey(fingerprint, in.Date, fv, base, withReference)
	if fc, ok := uc.fromCache(ctx, key); ok {
		fc.ID = uuid.NewString()
		fc.CreatedAt = start.UTC()
		fc.Cached = true
		uc.record(OutcomeCached)
		return fc, nil
	}

	predStart := uc.now()
	ret, err := predictor.Predict(ctx, handle, fv)
	uc.recordLatency("predict", predStart)
	if err != nil {
		uc.record(OutcomePredictionFailed)
		uc.l.Error("prediction failed",
			applogger.String("fingerprint", fingerprint),
			applogger.Error(err),
		)
		return nil, err
	}

	anchor := in.Date
	if !uc.proj.FixedAnchor.IsZero() {
		anchor = uc.proj.FixedAnchor
	}
	var traj models.Trajectory
	if withReference {
		traj = projection.ProjectWithReference(base, ret, uc.proj.Horizon, uc.proj.Step, anchor)
	} else {
		traj = models.Trajectory{Predicted: projection.Project(base, ret, uc.proj.Horizon, uc.proj.Step, anchor)}
	}

	fc := &models.Forecast{
		ID:               uuid.NewString(),
		CreatedAt:        start.UTC(),
		Date:             in.Date,
		Features:         fv,
		CurrentPrice:     in.CurrentPrice,
		BasePrice:        base,
		PredictedReturn:  ret,
		Trajectory:       traj,
		ModelFingerprint: fingerprint,
	}
	uc.toCache(ctx, key, fc)

	uc.record(OutcomeOK)
	if uc.metrics != nil {
		uc.metrics.RecordPredictedReturn(ret)
	}
	uc.l.Debug("forecast computed",
		applogger.String("id", fc.ID),
		applogger.Float64("predicted_return", ret),
		applogger.Float64("base_price", base),
		applogger.Bool("reference", withReference),
	)
	return fc, nil
}

// Describe loads the model if needed and reports its info together with the
// load error when it is absent.
func (uc *ForecastUseCase) Describe(ctx context.Context) (models.ModelInfo, error) {
	_, err := uc.store.Model(ctx)
	return uc.store.Info(), err
}

// Ready reports whether forecasts can be served.
func (uc *ForecastUseCase) Ready() bool {
	return uc.store.Info().State == models.ModelLoaded
}

func (uc *ForecastUseCase) check(in models.ForecastInput) error {
	for i, v := range []float64{in.RSI, in.ROC, in.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be a finite number", domsvc.ErrInvalidInput, models.FeatureSchema[i])
		}
	}
	if p := in.CurrentPrice; p != nil && (math.IsNaN(*p) || math.IsInf(*p, 0)) {
		return fmt.Errorf("%w: current price must be a finite number", domsvc.ErrInvalidInput)
	}
	if err := uc.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("%w: %s", domsvc.ErrInvalidInput, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", domsvc.ErrInvalidInput, err)
	}
	if in.Date.Before(EarliestDate) {
		return fmt.Errorf("%w: date %s is before %s", domsvc.ErrInvalidInput,
			in.Date.Format(time.DateOnly), EarliestDate.Format(time.DateOnly))
	}
	today := util.StartOfDay(uc.now().UTC())
	if in.Date.UTC().After(today.Add(24*time.Hour - time.Nanosecond)) {
		return fmt.Errorf("%w: date %s is in the future", domsvc.ErrInvalidInput, in.Date.Format(time.DateOnly))
	}
	return nil
}

func (uc *ForecastUseCase) fromCache(ctx context.Context, key string) (*models.Forecast, bool) {
	if uc.cache == nil {
		return nil, false
	}
	var fc models.Forecast
	if err := uc.cache.Get(ctx, key, &fc); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			uc.l.Warn("forecast cache read failed", applogger.Error(err))
		}
		return nil, false
	}
	return &fc, true
}

func (uc *ForecastUseCase) toCache(ctx context.Context, key string, fc *models.Forecast) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, key, fc, uc.cacheTTL); err != nil {
		uc.l.Warn("forecast cache write failed", applogger.Error(err))
	}
}

func (uc *ForecastUseCase) record(outcome string) {
	if uc.metrics != nil {
		uc.metrics.RecordForecast(outcome)
	}
}

func (uc *ForecastUseCase) recordLatency(op string, since time.Time) {
	if uc.metrics != nil {
		uc.metrics.RecordLatency(op, uc.now().Sub(since).Seconds())
	}
}

func cacheKey(fingerprint string, date time.Time, fv models.FeatureVector, base float64, ref bool) string {
	raw := fmt.Sprintf("%s|%g|%g|%g|%g|%t", date.UTC().Format(time.RFC3339), fv.RSI, fv.ROC, fv.Volume, base, ref)
	return cache.GenerateKeyWithParams("forecast", fingerprint, cache.HashKey(raw))
}
