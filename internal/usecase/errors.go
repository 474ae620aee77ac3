package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
)

// AppErrorFor maps Predict errors to the transport error taxonomy shared by
// the HTTP, websocket and kafka surfaces.
func AppErrorFor(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	var unknown *models.UnknownTickerError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &unknown):
		return xhttp.NewAppError("ERR_TICKER_NOT_FOUND", "ticker", unknown.Error(), http.StatusNotFound).WithError(err)
	case errors.Is(err, models.ErrEmptyTicker):
		return xhttp.NewAppError("ERR_REQUIRED", "ticker", "Ticker symbol is required.", http.StatusBadRequest).WithError(err)
	case errors.Is(err, models.ErrInvalidHorizon):
		return xhttp.NewAppError("ERR_INVALID_HORIZON", "days", fmt.Sprintf("Invalid forecast horizon: %v", err), http.StatusBadRequest).WithError(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return xhttp.UnavailableError("Request cancelled before the forecast was ready.").WithError(err)
	default:
		return xhttp.InternalError("An unexpected error occurred while generating the forecast.").WithError(err)
	}
}
