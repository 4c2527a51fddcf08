package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
	"github.com/eccentriccoder01/Bharatshaala/pkg/pagination"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

type productListQuery struct {
	Pagination pagination.Params
	CategoryID *uuid.UUID
	MarketID   *uuid.UUID
	Status     *enums.ProductStatus
	Search     string
	VendorID   *uuid.UUID
	PublicOnly bool
}

// ListProducts returns one page of products plus the total row count.
func (r *Repository) ListProducts(ctx context.Context, query productListQuery) ([]models.Product, int64, error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{})

	if query.VendorID != nil {
		qb = qb.Where("vendor_id = ?", *query.VendorID)
	}
	if query.PublicOnly {
		qb = qb.Where("status = ?", enums.ProductStatusActive)
	}
	if query.Status != nil {
		qb = qb.Where("status = ?", *query.Status)
	}
	if query.CategoryID != nil {
		qb = qb.Where("category_id = ?", *query.CategoryID)
	}
	if query.MarketID != nil {
		qb = qb.Where("market_id = ?", *query.MarketID)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(COALESCE(sku, '')) LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := qb.
		Order("created_at DESC").
		Order("id DESC").
		Offset(query.Pagination.Offset()).
		Limit(query.Pagination.Limit()).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// FindByIDs loads the given products without locking.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LockForUpdate loads the given products under SELECT ... FOR UPDATE. Callers
// must hold an open transaction; the locks are released on commit/rollback.
func (r *Repository) LockForUpdate(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	qb := r.db.WithContext(ctx)
	// SQLite has no row locks; writers serialize on the database lock.
	if r.db.Dialector.Name() != "sqlite" {
		qb = qb.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []models.Product
	err := qb.
		Where("id IN ?", ids).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DecrementStock applies a guarded stock decrement. The returned bool reports
// whether a row was updated; false means the remaining stock was below qty.
func (r *Repository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// FindCategoryByID loads a category row.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a new category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// SaveCategory updates an existing category row.
func (r *Repository) SaveCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindMarketByID loads a market row.
func (r *Repository) FindMarketByID(ctx context.Context, id uuid.UUID) (*models.Market, error) {
	var market models.Market
	if err := r.db.WithContext(ctx).First(&market, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &market, nil
}

// CreateMarket inserts a new market row.
func (r *Repository) CreateMarket(ctx context.Context, market *models.Market) (*models.Market, error) {
	if market.ID == uuid.Nil {
		market.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(market).Error; err != nil {
		return nil, err
	}
	return market, nil
}

// SaveMarket updates an existing market row.
func (r *Repository) SaveMarket(ctx context.Context, market *models.Market) (*models.Market, error) {
	if err := r.db.WithContext(ctx).Save(market).Error; err != nil {
		return nil, err
	}
	return market, nil
}

// ListCategories returns active categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListMarkets returns active markets ordered by name.
func (r *Repository) ListMarkets(ctx context.Context) ([]models.Market, error) {
	var rows []models.Market
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}
