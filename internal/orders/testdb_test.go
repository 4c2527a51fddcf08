package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eccentriccoder01/Bharatshaala/internal/address"
	"github.com/eccentriccoder01/Bharatshaala/internal/cart"
	"github.com/eccentriccoder01/Bharatshaala/internal/catalog"
	"github.com/eccentriccoder01/Bharatshaala/pkg/config"
	"github.com/eccentriccoder01/Bharatshaala/pkg/db"
	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
	"github.com/eccentriccoder01/Bharatshaala/pkg/razorpay"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:orders_%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  market_id TEXT,
  sku TEXT UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  discounted_price NUMERIC,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'active',
  rating NUMERIC NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, product_id)
);`,
		`CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  line1 TEXT NOT NULL,
  line2 TEXT,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  pincode TEXT NOT NULL,
  country TEXT NOT NULL DEFAULT 'India',
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number INTEGER,
  user_id TEXT NOT NULL,
  shipping_address_id TEXT NOT NULL,
  gateway_order_id TEXT UNIQUE,
  total_amount NUMERIC NOT NULL,
  shipping_amount NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'INR',
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL DEFAULT 'razorpay',
  tracking_number TEXT,
  cancel_reason TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  line_total NUMERIC NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS payment_attempts (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  method TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'INR',
  gateway_payment_id TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  failure_reason TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

// stubGateway implements paymentGateway without talking to Razorpay. A
// signature equal to validSig verifies; everything else fails.
type stubGateway struct {
	createErr error
	requests  []razorpay.OrderParams
	validSig  string
	seq       int
}

func (g *stubGateway) CreateOrder(_ context.Context, params razorpay.OrderParams) (*razorpay.Order, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.requests = append(g.requests, params)
	g.seq++
	return &razorpay.Order{
		ID:       fmt.Sprintf("order_stub_%d", g.seq),
		Amount:   params.Amount,
		Currency: params.Currency,
		Receipt:  params.Receipt,
		Status:   "created",
	}, nil
}

func (g *stubGateway) VerifySignature(_, _, signature string) bool {
	return g.validSig != "" && signature == g.validSig
}

type ordersFixture struct {
	conn      *gorm.DB
	svc       Service
	gateway   *stubGateway
	cartRepo  *cart.Repository
	addresses address.Service
}

func newOrdersFixture(t *testing.T) *ordersFixture {
	t.Helper()

	conn := setupOrdersTestDB(t)
	dbClient := db.NewFromConn(conn)

	addresses, err := address.NewService(address.NewRepository(conn), dbClient)
	require.NoError(t, err)

	gateway := &stubGateway{validSig: "sig-ok"}
	svc, err := NewService(
		NewRepository(conn),
		cart.NewRepository(conn),
		catalog.NewRepository(conn),
		addresses,
		gateway,
		dbClient,
		config.CheckoutConfig{ShippingCost: 100, Currency: "INR"},
		nil,
		nil,
	)
	require.NoError(t, err)

	return &ordersFixture{
		conn:      conn,
		svc:       svc,
		gateway:   gateway,
		cartRepo:  cart.NewRepository(conn),
		addresses: addresses,
	}
}

func (fx *ordersFixture) seedAddress(t *testing.T, userID uuid.UUID) uuid.UUID {
	t.Helper()
	dto, err := fx.addresses.Create(context.Background(), userID, address.CreateInput{
		Name:    "Asha Sharma",
		Phone:   "9876543210",
		Line1:   "14 MG Road",
		City:    "Jaipur",
		State:   "Rajasthan",
		Pincode: "302001",
	})
	require.NoError(t, err)
	return dto.ID
}

func (fx *ordersFixture) seedProduct(t *testing.T, vendorID uuid.UUID, price string, stock int) *models.Product {
	t.Helper()
	sku := fmt.Sprintf("SKU-%s", uuid.NewString())
	product := &models.Product{
		ID:            uuid.New(),
		VendorID:      vendorID,
		CategoryID:    uuid.New(),
		SKU:           &sku,
		Name:          "Handloom Stole",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Status:        enums.ProductStatusActive,
	}
	require.NoError(t, fx.conn.Create(product).Error)
	return product
}

func (fx *ordersFixture) addCartLine(t *testing.T, userID uuid.UUID, product *models.Product, quantity int) {
	t.Helper()
	line := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: product.EffectivePrice(),
	}
	require.NoError(t, fx.conn.Create(line).Error)
}

// placeOrder seeds an address, one product line (2 x 100), and runs checkout.
func (fx *ordersFixture) placeOrder(t *testing.T, userID, vendorID uuid.UUID) *OrderDTO {
	t.Helper()
	addressID := fx.seedAddress(t, userID)
	product := fx.seedProduct(t, vendorID, "100", 10)
	fx.addCartLine(t, userID, product, 2)

	order, err := fx.svc.CreateOrder(context.Background(), userID, CreateOrderInput{AddressID: addressID})
	require.NoError(t, err)
	return order
}

// confirmOrder verifies the order's payment so it reaches confirmed.
func (fx *ordersFixture) confirmOrder(t *testing.T, order *OrderDTO) *OrderDTO {
	t.Helper()
	require.NotNil(t, order.GatewayOrderID)
	confirmed, err := fx.svc.VerifyPayment(context.Background(), VerifyPaymentInput{
		GatewayOrderID:   *order.GatewayOrderID,
		GatewayPaymentID: "pay_" + uuid.NewString(),
		Signature:        fx.gateway.validSig,
	})
	require.NoError(t, err)
	return confirmed
}

func (fx *ordersFixture) productStock(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	var product models.Product
	require.NoError(t, fx.conn.First(&product, "id = ?", productID).Error)
	return product.StockQuantity
}

func (fx *ordersFixture) setStatus(t *testing.T, orderID uuid.UUID, status enums.OrderStatus) {
	t.Helper()
	require.NoError(t, fx.conn.Model(&models.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("status", status).
		Error)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr, "expected coded error, got %v", err)
	assert.Equal(t, code, domainErr.Code())
}
