package handler

import (
	"net/http"

	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthHandler reports liveness
type HealthHandler struct {
	db *gorm.DB
}

// Check answers ok, and with ?check=db also pings the database
func (h *HealthHandler) Check(c echo.Context) error {
	if c.QueryParam("check") != "db" {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		logger.FromContext(c).Error("Database health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "down"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "database": "up"})
}
