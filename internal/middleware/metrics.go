package middleware

import (
	"strconv"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/prometheus"
	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request count and latency labelled with the service name
func MetricsMiddleware(serviceName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			method := c.Request().Method
			path := c.Path()
			status := strconv.Itoa(c.Response().Status)

			prometheus.HttpRequestsTotal.WithLabelValues(serviceName, method, path, status).Inc()
			prometheus.HttpRequestDuration.WithLabelValues(serviceName, method, path, status).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}
