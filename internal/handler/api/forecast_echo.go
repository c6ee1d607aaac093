package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"StockPredict/internal/domain/models"
	domsvc "StockPredict/internal/domain/service"
	"StockPredict/internal/services/features"
	"StockPredict/internal/usecase"
	xhttp "StockPredict/pkg/http"
	xlogger "StockPredict/pkg/logger"
	"StockPredict/pkg/util"

	"github.com/labstack/echo/v4"
)

// ForecastEchoHandler serves forecasts, model info and probes.
type ForecastEchoHandler struct {
	logger *xlogger.Logger
	uc     *usecase.ForecastUseCase
}

func NewForecastEchoHandler(logger *xlogger.Logger, uc *usecase.ForecastUseCase) *ForecastEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ForecastEchoHandler{logger: logger, uc: uc}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/forecast", h.CreateForecast)
	g.GET("/forecast", h.QueryForecast)
	g.GET("/model", h.Model)

	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)
}

// CreateForecast handles POST /api/forecast with a JSON body.
func (h *ForecastEchoHandler) CreateForecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	in := models.ForecastInput{
		RSI:              *req.RSI,
		ROC:              *req.ROC,
		Volume:           *req.Volume,
		CurrentPrice:     req.CurrentPrice,
		IncludeReference: req.IncludeReference == nil || *req.IncludeReference,
	}
	if req.Date != "" {
		t, ok := util.ParseTime(req.Date)
		if !ok {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("date %q: expected YYYY-MM-DD or RFC3339", req.Date))
		}
		in.Date = t
	}
	return h.forecast(c, in)
}

// QueryForecast handles GET /api/forecast?rsi=..&roc=..&volume=..[&current_price=..][&date=..].
// Numbers arrive as text and are parsed strictly.
func (h *ForecastEchoHandler) QueryForecast(c echo.Context) error {
	for _, name := range []string{"rsi", "roc", "volume"} {
		if c.QueryParam(name) == "" {
			return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
				Code:    "ERR_REQUIRED",
				Field:   name,
				Message: name + " is required",
			}})
		}
	}

	var date time.Time
	if s := c.QueryParam("date"); s != "" {
		t, ok := util.ParseTime(s)
		if !ok {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("date %q: expected YYYY-MM-DD or RFC3339", s))
		}
		date = t
	}

	fv, err := features.BuildText(date, c.QueryParam("rsi"), c.QueryParam("roc"), c.QueryParam("volume"))
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	in := models.ForecastInput{
		Date:             date,
		RSI:              fv.RSI,
		ROC:              fv.ROC,
		Volume:           fv.Volume,
		IncludeReference: true,
	}
	if s := c.QueryParam("current_price"); s != "" {
		p, err := util.ParseFloat(s)
		if err != nil {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("current_price: %v", err))
		}
		in.CurrentPrice = &p
	}
	if s := c.QueryParam("include_reference"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("include_reference: %v", err))
		}
		in.IncludeReference = b
	}
	return h.forecast(c, in)
}

func (h *ForecastEchoHandler) forecast(c echo.Context, in models.ForecastInput) error {
	fc, err := h.uc.Forecast(c.Request().Context(), in)
	if err != nil {
		if !errors.Is(err, domsvc.ErrInvalidInput) {
			h.logger.Error("forecast usecase error", xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, fc)
}

// Model handles GET /api/model.
func (h *ForecastEchoHandler) Model(c echo.Context) error {
	info, err := h.uc.Describe(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, info)
}

// Healthz reports liveness; the process serves even without a model.
func (h *ForecastEchoHandler) Healthz(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// Readyz is 200 only once the model is loaded.
func (h *ForecastEchoHandler) Readyz(c echo.Context) error {
	if !h.uc.Ready() {
		return xhttp.ServiceUnavailableResponse(c, map[string]string{"status": "model not loaded"})
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ready"})
}

func toAppError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, domsvc.ErrInvalidInput):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, domsvc.ErrModelCorrupt):
		return xhttp.ModelCorruptError(err.Error()).WithError(err)
	case errors.Is(err, domsvc.ErrModelUnavailable):
		return xhttp.ModelUnavailableError(err.Error()).WithError(err)
	case errors.Is(err, domsvc.ErrPredictionFailure):
		return xhttp.PredictionFailedError(err.Error()).WithError(err)
	default:
		return xhttp.InternalError(http.StatusText(http.StatusInternalServerError)).WithError(err)
	}
}
