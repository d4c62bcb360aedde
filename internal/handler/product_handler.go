package handler

import (
	"net/http"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/events"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/repository"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/stockalert"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/logger"
	"github.com/Priyansh-03/Vyapar-Sahayak/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name              string          `json:"name" validate:"required,min=2"`
	Category          string          `json:"category" validate:"required,min=2"`
	Price             decimal.Decimal `json:"price" validate:"gt=0"`
	Quantity          int             `json:"quantity" validate:"min=0"`
	MinStockThreshold *int            `json:"min_stock_threshold" validate:"omitempty,min=0"`
}

func (r ProductRequest) apply(p *model.Product) {
	p.Name = r.Name
	p.Category = r.Category
	p.Price = model.RoundMoney(r.Price)
	p.Quantity = r.Quantity
	p.MinStockThreshold = r.MinStockThreshold
}

// ProductHandler serves the catalog
type ProductHandler struct {
	products  *repository.ProductRepository
	settings  *repository.SettingsRepository
	publisher events.Publisher
}

// List handles retrieving all products with optional filtering
func (h *ProductHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	filter := repository.ProductFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}

	products, err := h.products.List(c.Request().Context(), filter)
	if err != nil {
		return errorResponse(c, log, err, "Failed to retrieve products")
	}

	log.Info("Products retrieved successfully",
		zap.Int("count", len(products)),
		zap.String("category", filter.Category))
	return c.JSON(http.StatusOK, products)
}

// Get handles retrieving a single product by ID
func (h *ProductHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	product, err := h.products.FindByID(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, log, err, "Failed to retrieve product")
	}
	return c.JSON(http.StatusOK, product)
}

// LowStock lists products that are out of stock or below their threshold
func (h *ProductHandler) LowStock(c echo.Context) error {
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

	alerts := stockalert.Active(products, global)
	log.Info("Stock alerts evaluated",
		zap.Int("products", len(products)),
		zap.Int("alerts", len(alerts)))
	return c.JSON(http.StatusOK, alerts)
}

// Create handles creating a new product
func (h *ProductHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req ProductRequest
	if err := bindAndValidate(c, log, &req); err != nil {
		return err
	}

	var product model.Product
	req.apply(&product)
	if err := h.products.Create(c.Request().Context(), &product); err != nil {
		return errorResponse(c, log, err, "Failed to create product")
	}

	prometheus.RecordProductOperation("create")
	prometheus.UpdateProductInventory(product.ID, product.Name, product.Category, product.Quantity)

	log.Info("Product created successfully",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// Update handles updating an existing product. The response carries a stock
// alert when the edit pushed the product below its threshold.
func (h *ProductHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()
	id := c.Param("id")

	var req ProductRequest
	if err := bindAndValidate(c, log, &req); err != nil {
		return err
	}

	product, err := h.products.FindByID(ctx, id)
	if err != nil {
		return errorResponse(c, log, err, "Failed to retrieve product")
	}
	previous := product.Quantity
	oldName, oldCategory := product.Name, product.Category

	req.apply(product)
	if err := h.products.Update(ctx, product); err != nil {
		return errorResponse(c, log, err, "Failed to update product")
	}

	prometheus.RecordProductOperation("update")
	if oldName != product.Name || oldCategory != product.Category {
		prometheus.RemoveProductInventory(product.ID, oldName, oldCategory)
	}
	prometheus.UpdateProductInventory(product.ID, product.Name, product.Category, product.Quantity)

	response := echo.Map{"product": product}
	global, err := h.settings.GlobalLowStockThreshold(ctx)
	if err != nil {
		log.Warn("Could not evaluate stock alert", zap.Error(err))
	} else if alert, ok := stockalert.Crossed(&previous, *product, global); ok {
		prometheus.RecordStockAlert(string(alert.Level))
		events.Dispatch(ctx, h.publisher, events.NewStockAlert(alert))
		response["alert"] = alert
	}

	log.Info("Product updated successfully", zap.String("product_id", product.ID))
	return c.JSON(http.StatusOK, response)
}

// Delete handles removing a product
func (h *ProductHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()
	id := c.Param("id")

	product, err := h.products.FindByID(ctx, id)
	if err != nil {
		return errorResponse(c, log, err, "Failed to retrieve product")
	}
	if err := h.products.Delete(ctx, id); err != nil {
		return errorResponse(c, log, err, "Failed to delete product")
	}

	prometheus.RecordProductOperation("delete")
	prometheus.RemoveProductInventory(product.ID, product.Name, product.Category)

	log.Info("Product deleted successfully", zap.String("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product deleted successfully",
	})
}
