package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.Validation("title is required"), http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusBadRequest},
		{services.ErrUnauthenticated, http.StatusUnauthorized},
		{services.ErrInvalidToken, http.StatusUnauthorized},
		{fmt.Errorf("%w: role editor", services.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("blog %q %w", "x", services.ErrNotFound), http.StatusNotFound},
		{services.ErrDuplicateKey, http.StatusConflict},
		{services.ErrConflict, http.StatusConflict},
		{fmt.Errorf("%w: load: %w", services.ErrInternal, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{fmt.Errorf("%w: upsert: %w", services.ErrInternal, errors.New("boom")), http.StatusInternalServerError},
		{echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too big"), http.StatusRequestEntityTooLarge},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestErrorHandlerHidesInternalDetails(t *testing.T) {
	e := newTestEcho()
	e.GET("/fail", func(c echo.Context) error {
		return fmt.Errorf("%w: upsert: %w", services.ErrInternal, errors.New("pq: password authentication failed"))
	})
	e.GET("/missing", func(c echo.Context) error {
		return fmt.Errorf("blog %q %w", "hello", services.ErrNotFound)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, `blog "hello" not found`, body["error"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}
