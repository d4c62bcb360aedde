package handler

import (
	"net/http"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/repository"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/stockalert"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DashboardStats are the shop's headline numbers
type DashboardStats struct {
	TotalProducts    int             `json:"total_products"`
	LowStockCount    int             `json:"low_stock_count"`
	OutOfStockCount  int             `json:"out_of_stock_count"`
	TodaySalesAmount decimal.Decimal `json:"today_sales_amount"`
	TodayBillCount   int64           `json:"today_bill_count"`
}

// DashboardHandler serves the home screen summary
type DashboardHandler struct {
	products *repository.ProductRepository
	bills    *repository.BillRepository
	settings *repository.SettingsRepository
	now      func() time.Time
}

// Stats counts products by stock level and totals today's bills. Today is the
// server's local calendar day.
func (h *DashboardHandler) Stats(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	global, err := h.settings.GlobalLowStockThreshold(ctx)
	if err != nil {
		return errorResponse(c, log, err, "Failed to load settings")
	}
	products, err := h.products.ReadAll(ctx)
	if err != nil {
		return errorResponse(c, log, err, "Failed to retrieve products")
	}

	stats := DashboardStats{TotalProducts: len(products)}
	for _, p := range products {
		switch stockalert.Evaluate(p, global) {
		case stockalert.LowStock:
			stats.LowStockCount++
		case stockalert.OutOfStock:
			stats.OutOfStockCount++
		}
	}

	now := h.now()
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	sales, err := h.bills.SalesBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return errorResponse(c, log, err, "Failed to total today's sales")
	}
	stats.TodaySalesAmount = sales.Amount
	stats.TodayBillCount = sales.BillCount

	log.Info("Dashboard stats computed",
		zap.Int("products", stats.TotalProducts),
		zap.Int64("bills_today", stats.TodayBillCount))
	return c.JSON(http.StatusOK, stats)
}
