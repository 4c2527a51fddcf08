package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
)

func seedOrder(t *testing.T, conn *gorm.DB, userID uuid.UUID) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:                uuid.New(),
		UserID:            userID,
		ShippingAddressID: uuid.New(),
		TotalAmount:       decimal.NewFromInt(350),
		ShippingAmount:    decimal.NewFromInt(100),
		Currency:          enums.CurrencyINR,
		Status:            enums.OrderStatusPending,
		PaymentStatus:     enums.PaymentStatusPending,
		PaymentMethod:     enums.PaymentMethodRazorpay,
	}
	require.NoError(t, conn.Create(order).Error)
	return order
}

func TestUpdateStatusGuarded(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	order := seedOrder(t, conn, uuid.New())

	applied, err := repo.UpdateStatusGuarded(context.Background(), order.ID, enums.OrderStatusPending,
		map[string]any{"status": enums.OrderStatusConfirmed})
	require.NoError(t, err)
	assert.True(t, applied)

	// The guard loses once the row moved on.
	applied, err = repo.UpdateStatusGuarded(context.Background(), order.ID, enums.OrderStatusPending,
		map[string]any{"status": enums.OrderStatusCancelled})
	require.NoError(t, err)
	assert.False(t, applied)

	reloaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, reloaded.Status)
}

func TestCompletePaymentGuardedIsSingleShot(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	order := seedOrder(t, conn, uuid.New())

	applied, err := repo.CompletePaymentGuarded(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.CompletePaymentGuarded(context.Background(), order.ID)
	require.NoError(t, err)
	assert.False(t, applied, "a second completion must lose the guard")

	reloaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusCompleted, reloaded.PaymentStatus)
	assert.Equal(t, enums.OrderStatusConfirmed, reloaded.Status)
}

func TestHasVendorLines(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	vendor := uuid.New()
	order := seedOrder(t, conn, uuid.New())

	item := &models.OrderItem{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: uuid.New(),
		VendorID:  vendor,
		Name:      "Handloom Stole",
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(100),
		LineTotal: decimal.NewFromInt(100),
	}
	require.NoError(t, conn.Create(item).Error)

	involved, err := repo.HasVendorLines(context.Background(), order.ID, vendor)
	require.NoError(t, err)
	assert.True(t, involved)

	involved, err = repo.HasVendorLines(context.Background(), order.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, involved)
}
