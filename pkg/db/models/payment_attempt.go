package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
)

// PaymentAttempt is one row in the append-only payment history of an order.
// At most one attempt per order ever reaches completed.
type PaymentAttempt struct {
	ID               uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID                  `gorm:"column:order_id;type:uuid;not null;index"`
	Method           enums.PaymentMethod        `gorm:"column:method;type:text;not null"`
	Amount           decimal.Decimal            `gorm:"column:amount;type:numeric(10,2);not null"`
	Currency         enums.Currency             `gorm:"column:currency;type:text;not null;default:'INR'"`
	GatewayPaymentID *string                    `gorm:"column:gateway_payment_id"`
	Status           enums.PaymentAttemptStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	FailureReason    *string                    `gorm:"column:failure_reason"`
	CreatedAt        time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
