package catalog

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  parent_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	markets := `
CREATE TABLE IF NOT EXISTS markets (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  location TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  market_id TEXT,
  sku TEXT UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  discounted_price NUMERIC,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'active',
  rating NUMERIC NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(markets).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func newCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		IsActive: true,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func newMarket(t *testing.T, db *gorm.DB, name string) *models.Market {
	t.Helper()
	market := &models.Market{
		ID:       uuid.New(),
		Name:     name,
		IsActive: true,
	}
	require.NoError(t, db.Create(market).Error)
	return market
}

type productOverride func(*models.Product)

func withStatus(status enums.ProductStatus) productOverride {
	return func(p *models.Product) { p.Status = status }
}

func withStock(qty int) productOverride {
	return func(p *models.Product) { p.StockQuantity = qty }
}

func withPrice(price string) productOverride {
	return func(p *models.Product) { p.Price = decimal.RequireFromString(price) }
}

func newProduct(t *testing.T, db *gorm.DB, vendorID, categoryID uuid.UUID, name string, overrides ...productOverride) *models.Product {
	t.Helper()
	sku := fmt.Sprintf("SKU-%s", uuid.NewString())
	product := &models.Product{
		ID:            uuid.New(),
		VendorID:      vendorID,
		CategoryID:    categoryID,
		SKU:           &sku,
		Name:          name,
		Price:         decimal.NewFromInt(100),
		StockQuantity: 10,
		Status:        enums.ProductStatusActive,
	}
	for _, override := range overrides {
		override(product)
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
