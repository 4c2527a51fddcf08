package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
)

// ProductDTO is the serialized product shape used by catalog read paths.
type ProductDTO struct {
	ID              uuid.UUID        `json:"id"`
	VendorID        uuid.UUID        `json:"vendor_id"`
	CategoryID      uuid.UUID        `json:"category_id"`
	MarketID        *uuid.UUID       `json:"market_id,omitempty"`
	SKU             *string          `json:"sku,omitempty"`
	Name            string           `json:"name"`
	Description     *string          `json:"description,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	EffectivePrice  decimal.Decimal  `json:"effective_price"`
	StockQuantity   int              `json:"stock_quantity"`
	Status          string           `json:"status"`
	Rating          decimal.Decimal  `json:"rating"`
	ReviewCount     int              `json:"review_count"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// CategoryDTO is the serialized category shape.
type CategoryDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	IsActive    bool       `json:"is_active"`
}

// MarketDTO is the serialized market shape.
type MarketDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	IsActive    bool      `json:"is_active"`
}

// ProductPage is one page of products plus its pagination metadata inputs.
type ProductPage struct {
	Products   []ProductDTO
	TotalItems int64
}

func toProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:              product.ID,
		VendorID:        product.VendorID,
		CategoryID:      product.CategoryID,
		MarketID:        product.MarketID,
		SKU:             product.SKU,
		Name:            product.Name,
		Description:     product.Description,
		Price:           product.Price,
		DiscountedPrice: product.DiscountedPrice,
		EffectivePrice:  product.EffectivePrice(),
		StockQuantity:   product.StockQuantity,
		Status:          product.Status.String(),
		Rating:          product.Rating,
		ReviewCount:     product.ReviewCount,
		CreatedAt:       product.CreatedAt,
		UpdatedAt:       product.UpdatedAt,
	}
}

func toProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toProductDTO(&rows[i]))
	}
	return out
}

func toCategoryDTO(category *models.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		ParentID:    category.ParentID,
		IsActive:    category.IsActive,
	}
}

func toCategoryDTOs(rows []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toCategoryDTO(&rows[i]))
	}
	return out
}

func toMarketDTO(market *models.Market) *MarketDTO {
	if market == nil {
		return nil
	}
	return &MarketDTO{
		ID:          market.ID,
		Name:        market.Name,
		Description: market.Description,
		Location:    market.Location,
		IsActive:    market.IsActive,
	}
}

func toMarketDTOs(rows []models.Market) []MarketDTO {
	out := make([]MarketDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toMarketDTO(&rows[i]))
	}
	return out
}
