package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
)

func TestServiceGetProduct_inactiveReadsAsNotFound(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	vendor := uuid.New()
	category := newCategory(t, db, "Leather")
	hidden := newProduct(t, db, vendor, category.ID, "Archived Wallet", withStatus(enums.ProductStatusInactive))

	_, err = svc.GetProduct(context.Background(), hidden.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.GetProduct(context.Background(), uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceCreateProduct_validation(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	vendor := uuid.New()
	category := newCategory(t, db, "Metalware")

	_, err = svc.CreateProduct(context.Background(), vendor, CreateProductInput{
		CategoryID: category.ID,
		Name:       "Copper Lota",
		Price:      decimal.Zero,
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateProduct(context.Background(), vendor, CreateProductInput{
		CategoryID:    category.ID,
		Name:          "Copper Lota",
		Price:         decimal.NewFromInt(250),
		StockQuantity: -1,
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	discounted := decimal.NewFromInt(300)
	_, err = svc.CreateProduct(context.Background(), vendor, CreateProductInput{
		CategoryID:      category.ID,
		Name:            "Copper Lota",
		Price:           decimal.NewFromInt(250),
		DiscountedPrice: &discounted,
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	created, err := svc.CreateProduct(context.Background(), vendor, CreateProductInput{
		CategoryID:    category.ID,
		Name:          "  Copper Lota  ",
		Price:         decimal.NewFromInt(250),
		StockQuantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Copper Lota", created.Name)
	assert.Equal(t, enums.ProductStatusActive.String(), created.Status)
}

func TestServiceCreateProduct_duplicateSKUConflicts(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	vendor := uuid.New()
	category := newCategory(t, db, "Paintings")
	sku := "MADHUBANI-001"

	_, err = svc.CreateProduct(context.Background(), vendor, CreateProductInput{
		CategoryID: category.ID,
		SKU:        &sku,
		Name:       "Madhubani Print",
		Price:      decimal.NewFromInt(900),
	})
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), vendor, CreateProductInput{
		CategoryID: category.ID,
		SKU:        &sku,
		Name:       "Madhubani Print Copy",
		Price:      decimal.NewFromInt(900),
	})
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestServiceUpdateProduct_ownershipReadsAsNotFound(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	owner := uuid.New()
	intruder := uuid.New()
	category := newCategory(t, db, "Carpets")
	product := newProduct(t, db, owner, category.ID, "Kashmiri Carpet")

	name := "Renamed Carpet"
	_, err = svc.UpdateProduct(context.Background(), intruder, product.ID, UpdateProductInput{Name: &name})
	requireCode(t, err, pkgerrors.CodeNotFound)

	updated, err := svc.UpdateProduct(context.Background(), owner, product.ID, UpdateProductInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Carpet", updated.Name)
}

func TestServiceDeleteProduct(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	owner := uuid.New()
	category := newCategory(t, db, "Toys")
	product := newProduct(t, db, owner, category.ID, "Channapatna Doll")

	require.NoError(t, svc.DeleteProduct(context.Background(), owner, product.ID))

	err = svc.DeleteProduct(context.Background(), owner, product.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceListVendorProducts_includesInactive(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	vendor := uuid.New()
	category := newCategory(t, db, "Stonework")
	newProduct(t, db, vendor, category.ID, "Marble Inlay Plate")
	newProduct(t, db, vendor, category.ID, "Draft Coaster", withStatus(enums.ProductStatusInactive))

	page, err := svc.ListVendorProducts(context.Background(), vendor, ListVendorProductsInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalItems)

	inactive := enums.ProductStatusInactive
	filtered, err := svc.ListVendorProducts(context.Background(), vendor, ListVendorProductsInput{Status: &inactive})
	require.NoError(t, err)
	require.Len(t, filtered.Products, 1)
	assert.Equal(t, "Draft Coaster", filtered.Products[0].Name)
}

func TestServiceCategoryAdminLifecycle(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "   "})
	requireCode(t, err, pkgerrors.CodeValidation)

	created, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "  Textiles  "})
	require.NoError(t, err)
	assert.Equal(t, "Textiles", created.Name)
	assert.True(t, created.IsActive)

	_, err = svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "Textiles"})
	requireCode(t, err, pkgerrors.CodeConflict)

	inactive := false
	renamed := "Handloom Textiles"
	updated, err := svc.UpdateCategory(context.Background(), created.ID, UpdateCategoryInput{
		Name:     &renamed,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Handloom Textiles", updated.Name)
	assert.False(t, updated.IsActive)

	_, err = svc.UpdateCategory(context.Background(), uuid.New(), UpdateCategoryInput{Name: &renamed})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceMarketAdminLifecycle(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	location := "Jaipur"
	created, err := svc.CreateMarket(context.Background(), CreateMarketInput{
		Name:     "Johari Bazaar",
		Location: &location,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.Location)
	assert.Equal(t, "Jaipur", *created.Location)

	_, err = svc.CreateMarket(context.Background(), CreateMarketInput{Name: "Johari Bazaar"})
	requireCode(t, err, pkgerrors.CodeConflict)

	inactive := false
	updated, err := svc.UpdateMarket(context.Background(), created.ID, UpdateMarketInput{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.UpdateMarket(context.Background(), uuid.New(), UpdateMarketInput{IsActive: &inactive})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceSetProductStatus_moderatesAnyVendor(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	vendor := uuid.New()
	category := newCategory(t, db, "Jewellery")
	product := newProduct(t, db, vendor, category.ID, "Kundan Necklace")

	// No ownership check: moderation acts across vendors.
	moderated, err := svc.SetProductStatus(context.Background(), product.ID, enums.ProductStatusInactive)
	require.NoError(t, err)
	assert.Equal(t, enums.ProductStatusInactive.String(), moderated.Status)

	_, err = svc.GetProduct(context.Background(), product.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.SetProductStatus(context.Background(), product.ID, enums.ProductStatus("retired"))
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.SetProductStatus(context.Background(), uuid.New(), enums.ProductStatusActive)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr, "expected coded error, got %v", err)
	assert.Equal(t, code, domainErr.Code())
}
