package handler

import (
	"errors"
	"net/http"
	"reflect"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/checkout"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/events"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/repository"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/sequence"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RequestValidator adapts go-playground/validator to Echo
type RequestValidator struct {
	validator *validator.Validate
}

// NewRequestValidator creates a validator that also understands decimal fields
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return &RequestValidator{validator: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.validator.Struct(i)
}

// Handlers groups the API handlers
type Handlers struct {
	Products  *ProductHandler
	Bills     *BillHandler
	Udhaar    *UdhaarHandler
	Settings  *SettingsHandler
	Dashboard *DashboardHandler
	Health    *HealthHandler
}

// New wires the handlers onto db. publisher receives sale events.
func New(db *gorm.DB, publisher events.Publisher, defaultThreshold int) *Handlers {
	products := repository.NewProductRepository(db)
	bills := repository.NewBillRepository(db)
	counters := repository.NewCounterRepository(db)
	settings := repository.NewSettingsRepository(db, defaultThreshold)

	return &Handlers{
		Products: &ProductHandler{products: products, settings: settings, publisher: publisher},
		Bills: &BillHandler{
			checkout:  checkout.NewService(sequence.NewAllocator(counters), products, bills),
			bills:     bills,
			counters:  counters,
			settings:  settings,
			publisher: publisher,
		},
		Udhaar:    &UdhaarHandler{entries: repository.NewUdhaarRepository(db)},
		Settings:  &SettingsHandler{settings: settings},
		Dashboard: &DashboardHandler{products: products, bills: bills, settings: settings, now: time.Now},
		Health:    &HealthHandler{db: db},
	}
}

// Register mounts every route on e
func (h *Handlers) Register(e *echo.Echo) {
	e.GET("/health", h.Health.Check)

	productAPI := e.Group("/api/products")
	productAPI.GET("", h.Products.List)
	productAPI.GET("/low-stock", h.Products.LowStock)
	productAPI.GET("/:id", h.Products.Get)
	productAPI.POST("", h.Products.Create)
	productAPI.PUT("/:id", h.Products.Update)
	productAPI.DELETE("/:id", h.Products.Delete)

	billAPI := e.Group("/api/bills")
	billAPI.POST("", h.Bills.Commit)
	billAPI.GET("", h.Bills.List)
	billAPI.GET("/counter", h.Bills.Counter)
	billAPI.GET("/:id", h.Bills.Get)

	udhaarAPI := e.Group("/api/udhaar")
	udhaarAPI.GET("", h.Udhaar.List)
	udhaarAPI.GET("/summary", h.Udhaar.Summary)
	udhaarAPI.POST("", h.Udhaar.Create)
	udhaarAPI.PUT("/:id", h.Udhaar.Update)
	udhaarAPI.DELETE("/:id", h.Udhaar.Delete)

	e.GET("/api/dashboard/stats", h.Dashboard.Stats)

	e.GET("/api/settings", h.Settings.Get)
	e.PUT("/api/settings", h.Settings.Update)
}

// bindAndValidate decodes the request body into req and validates it. The
// returned error is a ready-made 400 response.
func bindAndValidate(c echo.Context, log *zap.Logger, req interface{}) error {
	if err := c.Bind(req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := c.Validate(req); err != nil {
		log.Warn("Request validation failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"error":   "Validation failed",
			"details": err.Error(),
		})
	}
	return nil
}

// errorResponse maps a domain error onto an HTTP status
func errorResponse(c echo.Context, log *zap.Logger, err error, message string) error {
	var commitErr *checkout.CommitError
	switch {
	case errors.As(err, &commitErr):
		// already logged by the commit sequence
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":       message,
			"step":        commitErr.Step.String(),
			"bill_number": commitErr.BillNumber,
		})
	case errors.Is(err, repository.ErrNotFound):
		log.Warn(message, zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	case errors.Is(err, checkout.ErrPrecondition):
		log.Warn(message, zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		log.Error(message, zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": message})
	}
}
