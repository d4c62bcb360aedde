package middleware

import (
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware reuses the caller's X-Request-ID or generates one, and
// attaches a logger carrying it to both the Echo and the request context
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
				c.Request().Header.Set(RequestIDHeader, requestID)
			}
			c.Response().Header().Set(RequestIDHeader, requestID)
			c.Set("request_id", requestID)

			ctxLogger := logger.GetLogger().With(zap.String("request_id", requestID))
			c.Set(logger.EchoKey, ctxLogger)
			c.SetRequest(c.Request().WithContext(logger.WithLogger(c.Request().Context(), ctxLogger)))

			return next(c)
		}
	}
}
