package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// Handler serves the prediction API. Routes are registered on the shared Echo
// instance via RegisterRoutes.
type Handler struct {
	l           *applogger.Logger
	predictor   *usecase.Predictor
	backtester  *usecase.BacktestRunner
	recommender *usecase.Recommender
	bars        domrepo.BarStore
	tickers     []string
}

func NewHandler(
	l *applogger.Logger,
	predictor *usecase.Predictor,
	backtester *usecase.BacktestRunner,
	recommender *usecase.Recommender,
	bars domrepo.BarStore,
	tickers []string,
) *Handler {
	return &Handler{
		l:           l,
		predictor:   predictor,
		backtester:  backtester,
		recommender: recommender,
		bars:        bars,
		tickers:     tickers,
	}
}

// RegisterRoutes implements xhttp.Handler.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	g := e.Group("/api")
	g.GET("/predict", h.Predict)
	g.POST("/backtest", h.Backtest)
	g.GET("/recommendations", h.Recommendations)
	g.GET("/bars", h.Bars)
}

// Predict handles GET /api/predict?ticker=XYZ.
func (h *Handler) Predict(c echo.Context) error {
	var req models.PredictRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	pred, err := h.predictor.Predict(c.Request().Context(), req.Ticker)
	if err != nil {
		return h.domainError(c, req.Ticker, err)
	}
	return xhttp.SuccessResponse(c, pred)
}

// Backtest handles POST /api/backtest.
func (h *Handler) Backtest(c echo.Context) error {
	var req models.BacktestRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	report, err := h.backtester.Run(c.Request().Context(), req.Ticker, req.Cash, req.Commission)
	if err != nil {
		return h.domainError(c, req.Ticker, err)
	}
	return xhttp.SuccessResponse(c, report)
}

// Recommendations handles GET /api/recommendations. Without an explicit list
// it evaluates the configured universe.
func (h *Handler) Recommendations(c echo.Context) error {
	tickers := h.tickers
	if raw := c.QueryParams()["ticker"]; len(raw) > 0 {
		tickers = raw
	}

	recs, err := h.recommender.Recommend(c.Request().Context(), tickers)
	if err != nil {
		return h.domainError(c, "", err)
	}
	return xhttp.ListResponse(c, recs, int64(len(recs)))
}

// Bars handles GET /api/bars?ticker=XYZ&from=...&to=...&limit=N. Range bounds
// accept RFC3339, date-only, or unix seconds; the default window is one year.
func (h *Handler) Bars(c echo.Context) error {
	var req models.PredictRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	to := xhttp.ParseTimeDefault(c.QueryParam("to"), time.Now().UTC())
	from := xhttp.ParseTimeDefault(c.QueryParam("from"), to.AddDate(-1, 0, 0))
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 0)

	bars, err := h.bars.GetBars(c.Request().Context(), req.Ticker, util.TruncateDay(from), to)
	if err != nil {
		return h.domainError(c, req.Ticker, err)
	}
	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return xhttp.ListResponse(c, bars, int64(len(bars)))
}

// Healthz reports dependency health.
func (h *Handler) Healthz(c echo.Context) error {
	if err := h.bars.Health(c.Request().Context()); err != nil {
		h.l.Error("health check failed", applogger.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "clickhouse": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// domainError maps the failure taxonomy onto HTTP status codes.
func (h *Handler) domainError(c echo.Context, ticker string, err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.Is(err, models.ErrModelNotFound):
		appErr = xhttp.NotFoundErrorf("no trained model for ticker %s", ticker)
	case errors.Is(err, models.ErrNoData):
		appErr = xhttp.NotFoundErrorf("no price history for ticker %s", ticker)
	case errors.Is(err, models.ErrInsufficientHistory):
		appErr = xhttp.UnprocessableError("ERR_INSUFFICIENT_HISTORY", err.Error())
	case errors.Is(err, models.ErrSchemaMismatch):
		appErr = xhttp.UnprocessableError("ERR_SCHEMA_MISMATCH", err.Error())
	case errors.Is(err, models.ErrRateLimited):
		appErr = xhttp.TooManyRequestsError(err.Error())
	case errors.Is(err, models.ErrUpstreamUnavailable):
		appErr = xhttp.ServiceUnavailableError(err.Error())
	default:
		h.l.Error("request failed",
			applogger.String("path", c.Path()),
			applogger.String("ticker", ticker),
			applogger.Error(err),
		)
		appErr = xhttp.InternalError("something went wrong")
	}
	return xhttp.AppErrorResponse(c, appErr)
}
