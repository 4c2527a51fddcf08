package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
)

// Product represents the canonical vendor listing.
type Product struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID        uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null;index"`
	CategoryID      uuid.UUID           `gorm:"column:category_id;type:uuid;not null;index"`
	MarketID        *uuid.UUID          `gorm:"column:market_id;type:uuid;index"`
	SKU             *string             `gorm:"column:sku;uniqueIndex"`
	Name            string              `gorm:"column:name;not null"`
	Description     *string             `gorm:"column:description"`
	Price           decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	DiscountedPrice *decimal.Decimal    `gorm:"column:discounted_price;type:numeric(10,2)"`
	StockQuantity   int                 `gorm:"column:stock_quantity;not null;default:0"`
	Status          enums.ProductStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Rating          decimal.Decimal     `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	ReviewCount     int                 `gorm:"column:review_count;not null;default:0"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice returns the discounted price when set, otherwise the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice != nil && p.DiscountedPrice.IsPositive() {
		return *p.DiscountedPrice
	}
	return p.Price
}

// IsPurchasable reports whether the listing accepts new cart lines.
func (p Product) IsPurchasable() bool {
	return p.Status == enums.ProductStatusActive
}
