package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
)

// LineDTO is one serialized cart line.
type LineDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	AddedAt     time.Time       `json:"added_at"`
}

// Snapshot is the full cart view: ordered lines, exact subtotal, item count.
type Snapshot struct {
	Items     []LineDTO       `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

func toSnapshot(lines []models.CartItem) *Snapshot {
	items := make([]LineDTO, 0, len(lines))
	subtotal := decimal.Zero
	count := 0
	for i := range lines {
		line := &lines[i]
		dto := LineDTO{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal(),
			AddedAt:   line.CreatedAt,
		}
		if line.Product != nil {
			dto.ProductName = line.Product.Name
		}
		items = append(items, dto)
		subtotal = subtotal.Add(dto.LineTotal)
		count += line.Quantity
	}
	return &Snapshot{Items: items, Subtotal: subtotal, ItemCount: count}
}
