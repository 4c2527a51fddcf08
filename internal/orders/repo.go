package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
	"github.com/eccentriccoder01/Bharatshaala/pkg/pagination"
)

// Repository persists orders and their payment history.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts an order together with its items. IDs are assigned here so
// inserts never rely on a database-side default.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads an order with items and payment history.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByGatewayOrderID loads an order by its gateway order reference.
func (r *Repository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "gateway_order_id = ?", gatewayOrderID).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns one page of the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, status *enums.OrderStatus, page pagination.Params) ([]models.Order, int64, error) {
	qb := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	if status != nil {
		qb = qb.Where("status = ?", *status)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := qb.
		Preload("Items").
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListAll returns one page of every order, newest first.
func (r *Repository) ListAll(ctx context.Context, status *enums.OrderStatus, paymentStatus *enums.PaymentStatus, page pagination.Params) ([]models.Order, int64, error) {
	qb := r.db.WithContext(ctx).Model(&models.Order{})
	if status != nil {
		qb = qb.Where("status = ?", *status)
	}
	if paymentStatus != nil {
		qb = qb.Where("payment_status = ?", *paymentStatus)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := qb.
		Preload("Items").
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListForVendor returns one page of orders containing at least one of the
// vendor's lines, newest first.
func (r *Repository) ListForVendor(ctx context.Context, vendorID uuid.UUID, status *enums.OrderStatus, page pagination.Params) ([]models.Order, int64, error) {
	sub := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("order_id").
		Where("vendor_id = ?", vendorID)

	qb := r.db.WithContext(ctx).Model(&models.Order{}).Where("id IN (?)", sub)
	if status != nil {
		qb = qb.Where("status = ?", *status)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := qb.
		Preload("Items", "vendor_id = ?", vendorID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// HasVendorLines reports whether the order carries at least one line owned by
// the vendor.
func (r *Repository) HasVendorLines(ctx context.Context, orderID, vendorID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("order_id = ? AND vendor_id = ?", orderID, vendorID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatusGuarded applies updates only while the order still holds the
// expected status. The returned bool reports whether the row was updated;
// false means a concurrent writer moved the order first.
func (r *Repository) UpdateStatusGuarded(ctx context.Context, orderID uuid.UUID, expected enums.OrderStatus, updates map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, expected).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// CompletePaymentGuarded marks the order paid and confirmed, but only while
// payment_status is still pending. The single-row guard is what makes payment
// verification idempotent under races.
func (r *Repository) CompletePaymentGuarded(ctx context.Context, orderID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", orderID, enums.PaymentStatusPending).
		Updates(map[string]any{
			"payment_status": enums.PaymentStatusCompleted,
			"status":         enums.OrderStatusConfirmed,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// AppendAttempt inserts a payment attempt row. The history is append-only.
func (r *Repository) AppendAttempt(ctx context.Context, attempt *models.PaymentAttempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(attempt).Error
}

// CountCompletedAttempts returns how many completed attempts the order holds.
func (r *Repository) CountCompletedAttempts(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PaymentAttempt{}).
		Where("order_id = ? AND status = ?", orderID, enums.PaymentAttemptStatusCompleted).
		Count(&count).
		Error
	return count, err
}
