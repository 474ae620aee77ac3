package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DataResponse writes data as the JSON body with the given status.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, data)
}

func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// ErrorResponse writes an ErrorBody.
func ErrorResponse(c echo.Context, status int, code, message string, details []ValidationError) error {
	return c.JSON(status, ErrorBody{
		Status:  status,
		Code:    code,
		Error:   message,
		Message: message,
		Details: details,
	})
}

func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, "ERR_INTERNAL", "Something went wrong", nil)
}

// AppErrorResponse writes application error response. Anything that is not an AppError becomes a 500.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ErrorResponse(c, appErr.Status, appErr.Code, appErr.Message, appErr.Details)
	}
	return InternalServerErrorResponse(c)
}

// HTTPErrorHandler renders echo's own errors (404 route, 405...) with ErrorBody.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		_ = ErrorResponse(c, he.Code, "ERR_HTTP", msg, nil)
		return
	}
	_ = AppErrorResponse(c, err)
}
