package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
)

// ItemDTO is a frozen order line.
type ItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// AttemptDTO is one payment attempt in the order's history.
type AttemptDTO struct {
	ID               uuid.UUID       `json:"id"`
	Method           string          `json:"method"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
	GatewayPaymentID *string         `json:"gateway_payment_id,omitempty"`
	FailureReason    *string         `json:"failure_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// OrderDTO is the customer-facing order shape.
type OrderDTO struct {
	ID             uuid.UUID       `json:"id"`
	OrderNumber    int64           `json:"order_number"`
	Status         string          `json:"status"`
	PaymentStatus  string          `json:"payment_status"`
	PaymentMethod  string          `json:"payment_method"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	Currency       string          `json:"currency"`
	GatewayOrderID *string         `json:"gateway_order_id,omitempty"`
	TrackingNumber *string         `json:"tracking_number,omitempty"`
	CancelReason   *string         `json:"cancel_reason,omitempty"`
	Items          []ItemDTO       `json:"items"`
	Payments       []AttemptDTO    `json:"payments,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// OrderPage is one page of orders plus the total row count.
type OrderPage struct {
	Orders     []OrderDTO
	TotalItems int64
}

// TrackingDTO is the lightweight tracking view of an order.
type TrackingDTO struct {
	OrderNumber    int64     `json:"order_number"`
	Status         string    `json:"status"`
	TrackingNumber *string   `json:"tracking_number,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PaymentInitiationDTO carries the gateway references a client needs to
// complete payment.
type PaymentInitiationDTO struct {
	OrderID        uuid.UUID       `json:"order_id"`
	GatewayOrderID string          `json:"gateway_order_id"`
	Amount         decimal.Decimal `json:"amount"`
	AmountPaise    int64           `json:"amount_paise"`
	Currency       string          `json:"currency"`
}

func toOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		Status:         order.Status.String(),
		PaymentStatus:  order.PaymentStatus.String(),
		PaymentMethod:  order.PaymentMethod.String(),
		TotalAmount:    order.TotalAmount,
		ShippingAmount: order.ShippingAmount,
		Currency:       order.Currency.String(),
		GatewayOrderID: order.GatewayOrderID,
		TrackingNumber: order.TrackingNumber,
		CancelReason:   order.CancelReason,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	dto.Items = make([]ItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}
	for _, attempt := range order.Payments {
		dto.Payments = append(dto.Payments, AttemptDTO{
			ID:               attempt.ID,
			Method:           attempt.Method.String(),
			Amount:           attempt.Amount,
			Status:           attempt.Status.String(),
			GatewayPaymentID: attempt.GatewayPaymentID,
			FailureReason:    attempt.FailureReason,
			CreatedAt:        attempt.CreatedAt,
		})
	}
	return dto
}

func toOrderDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toOrderDTO(&rows[i]))
	}
	return out
}
