package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

// StatusFor maps a service error onto an HTTP status code.
func StatusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateKey), errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders every error as {"error": "..."}. Server side failures
// are logged and answered with a generic message.
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := StatusFor(err)
		message := err.Error()

		var he *echo.HTTPError
		if errors.As(err, &he) {
			message = fmt.Sprint(he.Message)
		}

		if status >= http.StatusInternalServerError {
			log.Errorf("%s %s failed: %w", c.Request().Method, c.Request().URL.Path, err)
			message = http.StatusText(status)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, map[string]string{"error": message})
		}
		if err != nil {
			log.Error("failed to write error response", err)
		}
	}
}
