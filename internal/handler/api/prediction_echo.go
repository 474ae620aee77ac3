package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"StockCast/internal/domain/models"
	domsvc "StockCast/internal/domain/service"
	"StockCast/internal/service/metrics"
	"StockCast/internal/service/ratelimit"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
)

// PredictionService is what the transports need from the prediction usecase.
type PredictionService interface {
	domsvc.Predictor
	Horizons() []int
}

// PredictionEchoHandler serves forecasts over plain HTTP.
type PredictionEchoHandler struct {
	logger      *xlogger.Logger
	svc         PredictionService
	rl          *ratelimit.Limiter
	defaultDays int
}

// NewPredictionEchoHandler builds the handler. A nil limiter disables rate limiting.
func NewPredictionEchoHandler(logger *xlogger.Logger, svc PredictionService, rl *ratelimit.Limiter, defaultDays int) *PredictionEchoHandler {
	metrics.Register()
	if logger == nil {
		logger = xlogger.Nop()
	}
	if defaultDays <= 0 {
		defaultDays = models.DefaultForecastDays
	}
	return &PredictionEchoHandler{logger: logger, svc: svc, rl: rl, defaultDays: defaultDays}
}

func (h *PredictionEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/predict", h.Predict)
	g.GET("/tickers", h.Tickers)
}

// Predict handles GET /api/predict?ticker=AAPL&days=7.
func (h *PredictionEchoHandler) Predict(c echo.Context) error {
	const endpoint = "predict"
	start := time.Now()
	defer func() { metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	if h.rl != nil && !h.rl.Allow(c.RealIP()) {
		metrics.RateLimited.WithLabelValues(endpoint).Inc()
		h.logger.Warn("predict rate limited", xlogger.String("remote", c.RealIP()))
		return h.fail(c, endpoint, xhttp.TooManyRequestsError("Too many requests. Please slow down."))
	}

	req := &models.PredictRequest{Days: h.defaultDays}
	if err := xhttp.ReadAndValidateRequest(c, req); err != nil {
		return h.fail(c, endpoint, err)
	}

	res, err := h.svc.Predict(c.Request().Context(), req.Ticker, req.Days)
	if err != nil {
		appErr := usecase.AppErrorFor(err)
		if appErr.Status >= http.StatusInternalServerError {
			h.logger.Error("predict usecase error", xlogger.String("ticker", req.Ticker), xlogger.Error(err))
		}
		return h.fail(c, endpoint, appErr)
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, models.ToResponse(res))
}

// Tickers lists the suggested symbols and accepted horizons.
func (h *PredictionEchoHandler) Tickers(c echo.Context) error {
	out := models.TickersResponse{
		Tickers:     make([]models.TickerDTO, len(models.PopularTickers)),
		Horizons:    h.svc.Horizons(),
		DefaultDays: h.defaultDays,
	}
	for i, t := range models.PopularTickers {
		out.Tickers[i] = models.TickerDTO{Symbol: t.Symbol, Name: t.Name}
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=3600")
	return xhttp.SuccessResponse(c, out)
}

func (h *PredictionEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	code := "ERR_INTERNAL"
	if appErr := usecase.AppErrorFor(err); appErr != nil {
		code = appErr.Code
		err = appErr
	}
	metrics.EndpointErrors.WithLabelValues(endpoint, code).Inc()
	return xhttp.AppErrorResponse(c, err)
}
