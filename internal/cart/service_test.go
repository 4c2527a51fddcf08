package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eccentriccoder01/Bharatshaala/internal/catalog"
	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:cart_%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

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
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, product_id)
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func newCartService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupCartTestDB(t)
	svc, err := NewService(NewRepository(db), catalog.NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, price string, stock int, status enums.ProductStatus) *models.Product {
	t.Helper()
	sku := fmt.Sprintf("SKU-%s", uuid.NewString())
	product := &models.Product{
		ID:            uuid.New(),
		VendorID:      uuid.New(),
		CategoryID:    uuid.New(),
		SKU:           &sku,
		Name:          "Test Product",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Status:        status,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestAddMergesExistingLine(t *testing.T) {
	svc, db := newCartService(t)
	user := uuid.New()
	product := seedProduct(t, db, "100", 10, enums.ProductStatusActive)

	_, err := svc.Add(context.Background(), user, product.ID, 2)
	require.NoError(t, err)

	snapshot, err := svc.Add(context.Background(), user, product.ID, 3)
	require.NoError(t, err)

	require.Len(t, snapshot.Items, 1, "same product must merge into one line")
	assert.Equal(t, 5, snapshot.Items[0].Quantity)
	assert.Equal(t, 5, snapshot.ItemCount)
}

func TestAddRetriesMergeWhenInsertRaces(t *testing.T) {
	svc, db := newCartService(t)
	user := uuid.New()
	product := seedProduct(t, db, "100", 10, enums.ProductStatusActive)

	// Slip a competing line in between the read and the insert, the way a
	// concurrent request for the same product would.
	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("competing_add", func(tx *gorm.DB) {
		if raced || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "cart_items" {
			return
		}
		raced = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			`INSERT INTO cart_items (id, user_id, product_id, quantity, unit_price, created_at, updated_at)
			 VALUES (?, ?, ?, 2, 100, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			uuid.NewString(), user, product.ID,
		)
	})
	require.NoError(t, err)

	snapshot, err := svc.Add(context.Background(), user, product.ID, 3)
	require.NoError(t, err, "the losing insert must merge instead of failing")
	require.True(t, raced, "the competing insert must have fired")

	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, 5, snapshot.Items[0].Quantity, "both adds must land on the one line")
}

func TestAddChecksStockAgainstMergedTotal(t *testing.T) {
	svc, db := newCartService(t)
	user := uuid.New()
	product := seedProduct(t, db, "100", 5, enums.ProductStatusActive)

	_, err := svc.Add(context.Background(), user, product.ID, 4)
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), user, product.ID, 2)
	requireCode(t, err, pkgerrors.CodeInsufficientStock)

	snapshot, err := svc.Snapshot(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, 4, snapshot.Items[0].Quantity, "failed merge must not change the line")
}

func TestAddCapturesUnitPriceAtAddTime(t *testing.T) {
	svc, db := newCartService(t)
	user := uuid.New()
	product := seedProduct(t, db, "100", 10, enums.ProductStatusActive)

	_, err := svc.Add(context.Background(), user, product.ID, 1)
	require.NoError(t, err)

	// reprice the listing after the line exists
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		UpdateColumn("price", decimal.NewFromInt(999)).Error)

	snapshot, err := svc.Snapshot(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	assert.True(t, snapshot.Items[0].UnitPrice.Equal(decimal.NewFromInt(100)),
		"expected captured price 100, got %s", snapshot.Items[0].UnitPrice)
}

func TestAddUsesDiscountedPrice(t *testing.T) {
	svc, db := newCartService(t)
	user := uuid.New()
	product := seedProduct(t, db, "200", 10, enums.ProductStatusActive)
	discounted := decimal.NewFromInt(150)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		UpdateColumn("discounted_price", discounted).Error)

	snapshot, err := svc.Add(context.Background(), user, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	assert.True(t, snapshot.Items[0].UnitPrice.Equal(discounted))
	assert.True(t, snapshot.Subtotal.Equal(decimal.NewFromInt(300)))
}

func TestAddRejectsMissingOrInactiveProduct(t *testing.T) {
	svc, db := newCartService(t)
	user := uuid.New()

	_, err := svc.Add(context.Background(), user, uuid.New(), 1)
	requireCode(t, err, pkgerrors.CodeNotFound)

	inactive := seedProduct(t, db, "100", 10, enums.ProductStatusInactive)
	_, err = svc.Add(context.Background(), user, inactive.ID, 1)
	requireCode(t, err, pkgerrors.CodeNotFound)

	outOfStock := seedProduct(t, db, "100", 0, enums.ProductStatusOutOfStock)
	_, err = svc.Add(context.Background(), user, outOfStock.ID, 1)
	requireCode(t, err, pkgerrors.CodeInsufficientStock)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	svc, db := newCartService(t)
	user := uuid.New()
	product := seedProduct(t, db, "100", 10, enums.ProductStatusActive)

	for _, qty := range []int{0, -3} {
		_, err := svc.Add(context.Background(), user, product.ID, qty)
		requireCode(t, err, pkgerrors.CodeValidation)
	}
}

func TestUpdateQuantity(t *testing.T) {
	svc, db := newCartService(t)
	user := uuid.New()
	product := seedProduct(t, db, "100", 5, enums.ProductStatusActive)

	snapshot, err := svc.Add(context.Background(), user, product.ID, 2)
	require.NoError(t, err)
	lineID := snapshot.Items[0].ID

	updated, err := svc.UpdateQuantity(context.Background(), user, lineID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Items[0].Quantity)

	_, err = svc.UpdateQuantity(context.Background(), user, lineID, 6)
	requireCode(t, err, pkgerrors.CodeInsufficientStock)

	_, err = svc.UpdateQuantity(context.Background(), user, lineID, 0)
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.UpdateQuantity(context.Background(), uuid.New(), lineID, 1)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestRemove(t *testing.T) {
	svc, db := newCartService(t)
	user := uuid.New()
	product := seedProduct(t, db, "100", 5, enums.ProductStatusActive)

	snapshot, err := svc.Add(context.Background(), user, product.ID, 1)
	require.NoError(t, err)
	lineID := snapshot.Items[0].ID

	_, err = svc.Remove(context.Background(), uuid.New(), lineID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	after, err := svc.Remove(context.Background(), user, lineID)
	require.NoError(t, err)
	assert.Empty(t, after.Items)

	_, err = svc.Remove(context.Background(), user, lineID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestClearIsIdempotent(t *testing.T) {
	svc, db := newCartService(t)
	user := uuid.New()
	product := seedProduct(t, db, "100", 5, enums.ProductStatusActive)

	_, err := svc.Add(context.Background(), user, product.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), user))
	require.NoError(t, svc.Clear(context.Background(), user), "clearing an empty cart must succeed")

	snapshot, err := svc.Snapshot(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Items)
	assert.Equal(t, 0, snapshot.ItemCount)
	assert.True(t, snapshot.Subtotal.IsZero())
}

func TestSnapshotTotals(t *testing.T) {
	svc, db := newCartService(t)
	user := uuid.New()
	first := seedProduct(t, db, "100", 10, enums.ProductStatusActive)
	second := seedProduct(t, db, "50", 10, enums.ProductStatusActive)

	_, err := svc.Add(context.Background(), user, first.ID, 2)
	require.NoError(t, err)
	snapshot, err := svc.Add(context.Background(), user, second.ID, 1)
	require.NoError(t, err)

	assert.True(t, snapshot.Subtotal.Equal(decimal.NewFromInt(250)),
		"expected subtotal 250, got %s", snapshot.Subtotal)
	assert.Equal(t, 3, snapshot.ItemCount)
	require.Len(t, snapshot.Items, 2)
	assert.Equal(t, first.ID, snapshot.Items[0].ProductID, "lines keep insertion order")
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr, "expected coded error, got %v", err)
	assert.Equal(t, code, domainErr.Code())
}
