package handler

import (
	"net/http"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/repository"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SettingsRequest defines the structure for settings updates
type SettingsRequest struct {
	GlobalLowStockThreshold *int `json:"global_low_stock_threshold" validate:"required,min=0"`
	NotificationsEnabled    bool `json:"notifications_enabled"`
}

// SettingsHandler serves the shop settings
type SettingsHandler struct {
	settings *repository.SettingsRepository
}

func (h *SettingsHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	settings, err := h.settings.Get(c.Request().Context())
	if err != nil {
		return errorResponse(c, log, err, "Failed to load settings")
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	var req SettingsRequest
	if err := bindAndValidate(c, log, &req); err != nil {
		return err
	}

	settings, err := h.settings.Get(ctx)
	if err != nil {
		return errorResponse(c, log, err, "Failed to load settings")
	}
	settings.GlobalLowStockThreshold = *req.GlobalLowStockThreshold
	settings.NotificationsEnabled = req.NotificationsEnabled
	if err := h.settings.Save(ctx, settings); err != nil {
		return errorResponse(c, log, err, "Failed to save settings")
	}

	log.Info("Settings updated",
		zap.Int("global_low_stock_threshold", settings.GlobalLowStockThreshold),
		zap.Bool("notifications_enabled", settings.NotificationsEnabled))
	return c.JSON(http.StatusOK, settings)
}
