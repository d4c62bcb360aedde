package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/logger"
	"github.com/Priyansh-03/Vyapar-Sahayak/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuantityUpdate sets a product's on-hand quantity
type QuantityUpdate struct {
	ID          string `json:"id"`
	NewQuantity int    `json:"new_quantity"`
}

// ProductFilter narrows List results
type ProductFilter struct {
	Category string
	Search   string
}

// ProductRepository provides access to product storage
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns products ordered by name
func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("product_list")(time.Now())

	query := r.db.WithContext(ctx)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var products []model.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ReadAll returns the full product set
func (r *ProductRepository) ReadAll(ctx context.Context) ([]model.Product, error) {
	return r.List(ctx, ProductFilter{})
}

// FindByID retrieves a product by its id
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	defer prometheus.TrackDBOperation("product_get")(time.Now())

	var product model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", id, notFound(err))
	}
	return &product, nil
}

// FindByIDs retrieves the products with the given ids. Unknown ids are skipped.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("product_get_many")(time.Now())

	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

// Create saves a new product. A negative quantity is stored as 0.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	defer prometheus.TrackDBOperation("product_insert")(time.Now())

	product.Quantity = model.ClampQuantity(product.Quantity)
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites an existing product. A negative quantity is stored as 0.
func (r *ProductRepository) Update(ctx context.Context, product *model.Product) error {
	defer prometheus.TrackDBOperation("product_update")(time.Now())

	product.Quantity = model.ClampQuantity(product.Quantity)
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", product.ID).
		Select("name", "category", "price", "quantity", "min_stock_threshold", "updated_at").
		Updates(product)
	if result.Error != nil {
		return fmt.Errorf("failed to update product %s: %w", product.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update product %s: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a product by id
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	defer prometheus.TrackDBOperation("product_delete")(time.Now())

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete product %s: %w", id, ErrNotFound)
	}
	return nil
}

// BatchUpdateQuantities sets every quantity in one transaction: either all
// updates apply or none do. Each update is an unconditional set of the given
// value (clamped at 0); the previous quantity is not checked.
func (r *ProductRepository) BatchUpdateQuantities(ctx context.Context, updates []QuantityUpdate) error {
	defer prometheus.TrackDBOperation("product_batch_quantity")(time.Now())

	log := logger.FromCtx(ctx)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			quantity := u.NewQuantity
			if quantity < 0 {
				log.Warn("Negative quantity requested, storing 0",
					zap.String("product_id", u.ID),
					zap.Int("requested", quantity))
				quantity = 0
			}

			result := tx.Model(&model.Product{}).Where("id = ?", u.ID).Update("quantity", quantity)
			if result.Error != nil {
				return fmt.Errorf("failed to update quantity of product %s: %w", u.ID, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("failed to update quantity of product %s: %w", u.ID, ErrNotFound)
			}
		}
		return nil
	})
}

// SeedIfEmpty inserts products in one batch when the table is empty.
// It reports whether anything was inserted.
func (r *ProductRepository) SeedIfEmpty(ctx context.Context, products []model.Product) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 || len(products) == 0 {
		return false, nil
	}
	if err := r.db.WithContext(ctx).Create(&products).Error; err != nil {
		return false, fmt.Errorf("failed to seed products: %w", err)
	}
	return true, nil
}
