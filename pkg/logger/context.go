package logger

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type contextKey int

const loggerKey contextKey = iota

// EchoKey is the Echo context key holding the request-scoped logger
const EchoKey = "logger"

// WithLogger returns a copy of the context with the logger included
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromCtx retrieves the logger from a Go context, falling back to the global logger
func FromCtx(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return GetLogger()
}

// FromContext retrieves the logger from the Echo context
func FromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get(EchoKey).(*zap.Logger); ok {
		return l
	}
	return FromCtx(c.Request().Context())
}
