package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
)

// Order is a customer order created by checkout. Amounts are frozen at
// creation time; status moves through the fulfillment state machine and
// payment_status is owned by payment verification.
type Order struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber       int64               `gorm:"column:order_number;autoIncrement;uniqueIndex"`
	UserID            uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	ShippingAddressID uuid.UUID           `gorm:"column:shipping_address_id;type:uuid;not null"`
	GatewayOrderID    *string             `gorm:"column:gateway_order_id;uniqueIndex"`
	TotalAmount       decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	ShippingAmount    decimal.Decimal     `gorm:"column:shipping_amount;type:numeric(10,2);not null"`
	Currency          enums.Currency      `gorm:"column:currency;type:text;not null;default:'INR'"`
	Status            enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending';index"`
	PaymentStatus     enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'razorpay'"`
	TrackingNumber    *string             `gorm:"column:tracking_number"`
	CancelReason      *string             `gorm:"column:cancel_reason"`
	Notes             *string             `gorm:"column:notes"`
	Items             []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments          []PaymentAttempt    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
