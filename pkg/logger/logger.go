package logger

import (
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/config"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// InitLogger initializes the global logger with configuration
func InitLogger(cfg *config.Config) error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var (
		built *zap.Logger
		err   error
	)
	if cfg.Server.Env == "production" {
		prodConfig := zap.NewProductionConfig()
		prodConfig.Level = zap.NewAtomicLevelAt(level)
		prodConfig.EncoderConfig.TimeKey = "timestamp"
		prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		built, err = prodConfig.Build(zap.Fields(
			zap.String("service", cfg.ServiceName),
			zap.String("environment", cfg.Server.Env),
		))
	} else {
		devConfig := zap.NewDevelopmentConfig()
		devConfig.Level = zap.NewAtomicLevelAt(level)
		devConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

		built, err = devConfig.Build(zap.Fields(
			zap.String("service", cfg.ServiceName),
			zap.String("environment", cfg.Server.Env),
		))
	}
	if err != nil {
		return err
	}

	log = built
	zap.ReplaceGlobals(log)
	return nil
}

// SetLogger replaces the global logger. Used by tests to capture output.
func SetLogger(l *zap.Logger) {
	log = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	return log
}

// Middleware returns an Echo middleware that logs HTTP requests
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			fields := []zapcore.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			}

			ctxLogger := FromContext(c)
			if err != nil {
				fields = append(fields, zap.Error(err))
				ctxLogger.Error("HTTP request failed", fields...)
			} else {
				ctxLogger.Info("HTTP request completed", fields...)
			}

			return err
		}
	}
}
