package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eccentriccoder01/Bharatshaala/pkg/db"
	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
	"github.com/eccentriccoder01/Bharatshaala/pkg/pagination"
)

// Service exposes the public catalog plus the vendor product surface.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	ListMarkets(ctx context.Context) ([]MarketDTO, error)

	CreateProduct(ctx context.Context, vendorID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, vendorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, vendorID, productID uuid.UUID) error
	ListVendorProducts(ctx context.Context, vendorID uuid.UUID, input ListVendorProductsInput) (*ProductPage, error)

	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	CreateMarket(ctx context.Context, input CreateMarketInput) (*MarketDTO, error)
	UpdateMarket(ctx context.Context, marketID uuid.UUID, input UpdateMarketInput) (*MarketDTO, error)
	SetProductStatus(ctx context.Context, productID uuid.UUID, status enums.ProductStatus) (*ProductDTO, error)
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string
	Description *string
	ParentID    *uuid.UUID
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	ParentID    *uuid.UUID
	IsActive    *bool
}

// CreateMarketInput holds the validated payload to create a market.
type CreateMarketInput struct {
	Name        string
	Description *string
	Location    *string
}

// UpdateMarketInput holds optional mutation values for a market.
type UpdateMarketInput struct {
	Name        *string
	Description *string
	Location    *string
	IsActive    *bool
}

// ListProductsInput filters the public product listing.
type ListProductsInput struct {
	CategoryID *uuid.UUID
	MarketID   *uuid.UUID
	Search     string
	Pagination pagination.Params
}

// ListVendorProductsInput filters a vendor's own listing view.
type ListVendorProductsInput struct {
	Status     *enums.ProductStatus
	Search     string
	Pagination pagination.Params
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	CategoryID      uuid.UUID
	MarketID        *uuid.UUID
	SKU             *string
	Name            string
	Description     *string
	Price           decimal.Decimal
	DiscountedPrice *decimal.Decimal
	StockQuantity   int
	Status          enums.ProductStatus
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	CategoryID      *uuid.UUID
	MarketID        *uuid.UUID
	SKU             *string
	Name            *string
	Description     *string
	Price           *decimal.Decimal
	DiscountedPrice *decimal.Decimal
	StockQuantity   *int
	Status          *enums.ProductStatus
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// GetProduct returns an active product for public reads.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product.Status != enums.ProductStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return toProductDTO(product), nil
}

// ListProducts returns one page of active products.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error) {
	rows, total, err := s.repo.ListProducts(ctx, productListQuery{
		Pagination: pagination.Normalize(input.Pagination),
		CategoryID: input.CategoryID,
		MarketID:   input.MarketID,
		Search:     input.Search,
		PublicOnly: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return &ProductPage{Products: toProductDTOs(rows), TotalItems: total}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return toCategoryDTOs(rows), nil
}

func (s *service) ListMarkets(ctx context.Context) ([]MarketDTO, error) {
	rows, err := s.repo.ListMarkets(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list markets")
	}
	return toMarketDTOs(rows), nil
}

// CreateProduct inserts a new listing owned by the vendor.
func (s *service) CreateProduct(ctx context.Context, vendorID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if err := validatePricing(input.Price, input.DiscountedPrice); err != nil {
		return nil, err
	}
	if input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity cannot be negative")
	}

	status := input.Status
	if status == "" {
		status = enums.ProductStatusActive
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product status")
	}

	product := &models.Product{
		VendorID:        vendorID,
		CategoryID:      input.CategoryID,
		MarketID:        input.MarketID,
		SKU:             normalizeSKU(input.SKU),
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		Price:           input.Price,
		DiscountedPrice: input.DiscountedPrice,
		StockQuantity:   input.StockQuantity,
		Status:          status,
	}
	if product.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "sku already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return toProductDTO(created), nil
}

// UpdateProduct applies partial mutations to a vendor-owned listing.
func (s *service) UpdateProduct(ctx context.Context, vendorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadOwnedProduct(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.MarketID != nil {
		product.MarketID = input.MarketID
	}
	if input.SKU != nil {
		product.SKU = normalizeSKU(input.SKU)
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.DiscountedPrice != nil {
		product.DiscountedPrice = input.DiscountedPrice
	}
	if err := validatePricing(product.Price, product.DiscountedPrice); err != nil {
		return nil, err
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity cannot be negative")
		}
		product.StockQuantity = *input.StockQuantity
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product status")
		}
		product.Status = *input.Status
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "sku already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return toProductDTO(updated), nil
}

// DeleteProduct removes a vendor-owned listing.
func (s *service) DeleteProduct(ctx context.Context, vendorID, productID uuid.UUID) error {
	if _, err := s.loadOwnedProduct(ctx, vendorID, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// ListVendorProducts returns one page of the vendor's own listings, any status.
func (s *service) ListVendorProducts(ctx context.Context, vendorID uuid.UUID, input ListVendorProductsInput) (*ProductPage, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product status")
	}
	rows, total, err := s.repo.ListProducts(ctx, productListQuery{
		Pagination: pagination.Normalize(input.Pagination),
		Status:     input.Status,
		Search:     input.Search,
		VendorID:   &vendorID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list vendor products")
	}
	return &ProductPage{Products: toProductDTOs(rows), TotalItems: total}, nil
}

// CreateCategory inserts a new category. Admin surface.
func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	category := &models.Category{
		Name:        name,
		Description: input.Description,
		ParentID:    input.ParentID,
		IsActive:    true,
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "category name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return toCategoryDTO(created), nil
}

// UpdateCategory applies partial mutations to a category. Admin surface.
func (s *service) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.ParentID != nil {
		category.ParentID = input.ParentID
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	updated, err := s.repo.SaveCategory(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "category name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	return toCategoryDTO(updated), nil
}

// CreateMarket inserts a new market. Admin surface.
func (s *service) CreateMarket(ctx context.Context, input CreateMarketInput) (*MarketDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	market := &models.Market{
		Name:        name,
		Description: input.Description,
		Location:    input.Location,
		IsActive:    true,
	}
	created, err := s.repo.CreateMarket(ctx, market)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "market name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert market")
	}
	return toMarketDTO(created), nil
}

// UpdateMarket applies partial mutations to a market. Admin surface.
func (s *service) UpdateMarket(ctx context.Context, marketID uuid.UUID, input UpdateMarketInput) (*MarketDTO, error) {
	market, err := s.repo.FindMarketByID(ctx, marketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "market not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load market")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		market.Name = name
	}
	if input.Description != nil {
		market.Description = input.Description
	}
	if input.Location != nil {
		market.Location = input.Location
	}
	if input.IsActive != nil {
		market.IsActive = *input.IsActive
	}

	updated, err := s.repo.SaveMarket(ctx, market)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "market name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update market")
	}
	return toMarketDTO(updated), nil
}

// SetProductStatus moderates any vendor's listing. Admin surface.
func (s *service) SetProductStatus(ctx context.Context, productID uuid.UUID, status enums.ProductStatus) (*ProductDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product status")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	product.Status = status
	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product status")
	}
	return toProductDTO(updated), nil
}

// loadOwnedProduct resolves a product and checks vendor ownership. A product
// owned by somebody else reads as not found.
func (s *service) loadOwnedProduct(ctx context.Context, vendorID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func validatePricing(price decimal.Decimal, discounted *decimal.Decimal) error {
	if !price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	if discounted != nil {
		if !discounted.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "discounted_price must be greater than zero")
		}
		if discounted.GreaterThan(price) {
			return pkgerrors.New(pkgerrors.CodeValidation, "discounted_price cannot exceed price")
		}
	}
	return nil
}

func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
