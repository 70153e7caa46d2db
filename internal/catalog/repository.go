package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	dbpkg "github.com/angelmondragon/pedidoz-backend/pkg/db"
	"github.com/angelmondragon/pedidoz-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
)

// Repository persists catalog products.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the shared connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListActive returns every active product, the snapshot the matcher runs
// against. The catalog is small reference data; no pagination.
func (r *Repository) ListActive(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sku ASC").
		Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing active products")
	}
	return products, nil
}

// GetBySKU returns the product carrying the given SKU.
func (r *Repository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	trimmed := strings.TrimSpace(sku)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	var product models.Product
	err := r.db.WithContext(ctx).Where("sku = ?", trimmed).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product by sku")
	}
	return &product, nil
}

// Upsert creates the product or updates the existing row with the same SKU.
func (r *Repository) Upsert(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}

	var existing models.Product
	err := r.db.WithContext(ctx).Where("sku = ?", product.SKU).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if createErr := r.db.WithContext(ctx).Create(product).Error; createErr != nil {
			if dbpkg.IsUniqueViolation(createErr, "idx_products_sku") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "product sku already exists")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, createErr, "creating product")
		}
		return product, nil
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking existing product")
	}

	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	if saveErr := r.db.WithContext(ctx).Save(product).Error; saveErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, saveErr, "updating product")
	}
	return product, nil
}
