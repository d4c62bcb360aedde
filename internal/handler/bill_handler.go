package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/checkout"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/events"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/repository"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/stockalert"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/logger"
	"github.com/Priyansh-03/Vyapar-Sahayak/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BillHandler serves bill generation and history
type BillHandler struct {
	checkout  *checkout.Service
	bills     *repository.BillRepository
	counters  *repository.CounterRepository
	settings  *repository.SettingsRepository
	publisher events.Publisher
}

// CommitResponse is returned for a generated bill
type CommitResponse struct {
	Bill     *model.Bill        `json:"bill"`
	Degraded bool               `json:"degraded"`
	Products []model.Product    `json:"products"`
	Alerts   []stockalert.Alert `json:"alerts"`
}

// Commit generates a bill from the posted cart
func (h *BillHandler) Commit(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	var req checkout.CommitRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	log.Info("Bill generation requested", zap.Int("lines", len(req.Lines)))
	result, err := h.checkout.Commit(ctx, req)
	if err != nil {
		return errorResponse(c, log, err, "Failed to generate bill")
	}

	alerts := h.crossedAlerts(ctx, result)
	msgs := []events.Message{events.NewBillCommitted(result.Bill, result.Degraded)}
	for _, alert := range alerts {
		prometheus.RecordStockAlert(string(alert.Level))
		msgs = append(msgs, events.NewStockAlert(alert))
	}
	events.Dispatch(context.WithoutCancel(ctx), h.publisher, msgs...)

	return c.JSON(http.StatusCreated, CommitResponse{
		Bill:     result.Bill,
		Degraded: result.Degraded,
		Products: result.Products,
		Alerts:   alerts,
	})
}

// crossedAlerts returns the alerts newly raised by the sale
func (h *BillHandler) crossedAlerts(ctx context.Context, result *checkout.CommitResult) []stockalert.Alert {
	alerts := []stockalert.Alert{}
	global, err := h.settings.GlobalLowStockThreshold(ctx)
	if err != nil {
		logger.FromCtx(ctx).Warn("Could not evaluate stock alerts", zap.Error(err))
		return alerts
	}

	for _, p := range result.Products {
		prev, sold := result.PreviousQuantities[p.ID]
		if !sold {
			continue
		}
		if alert, ok := stockalert.Crossed(&prev, p, global); ok {
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

// List returns the bill history
func (h *BillHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	query := repository.BillQuery{
		Search: c.QueryParam("search"),
		Sort:   repository.ParseBillSort(c.QueryParam("sort")),
	}

	bills, err := h.bills.List(c.Request().Context(), query)
	if err != nil {
		return errorResponse(c, log, err, "Failed to retrieve bills")
	}

	log.Info("Bills retrieved successfully",
		zap.Int("count", len(bills)),
		zap.String("sort", string(query.Sort)))
	return c.JSON(http.StatusOK, bills)
}

// Get returns one bill
func (h *BillHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	bill, err := h.bills.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, log, err, "Failed to retrieve bill")
	}
	return c.JSON(http.StatusOK, bill)
}

// Counter reports the last issued and the next bill number
func (h *BillHandler) Counter(c echo.Context) error {
	log := logger.FromContext(c)

	var last int64
	counter, err := h.counters.Read(c.Request().Context())
	switch {
	case errors.Is(err, repository.ErrCounterNotFound):
	case err != nil:
		return errorResponse(c, log, err, "Failed to read bill counter")
	default:
		last = counter.LastNumber
	}

	return c.JSON(http.StatusOK, echo.Map{
		"last_number": last,
		"next_number": last + 1,
	})
}
