package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestIDMiddlewareGeneratesID(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.GET("/", func(c echo.Context) error {
		_, ok := c.Get(logger.EchoKey).(*zap.Logger)
		assert.True(t, ok)
		assert.NotEmpty(t, c.Get("request_id"))
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestRequestIDMiddlewareKeepsCallerID(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("request_id").(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestMetricsMiddlewarePassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(MetricsMiddleware("test"))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}
