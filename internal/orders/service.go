package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eccentriccoder01/Bharatshaala/internal/cart"
	"github.com/eccentriccoder01/Bharatshaala/internal/catalog"
	"github.com/eccentriccoder01/Bharatshaala/pkg/config"
	"github.com/eccentriccoder01/Bharatshaala/pkg/db"
	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
	"github.com/eccentriccoder01/Bharatshaala/pkg/logger"
	"github.com/eccentriccoder01/Bharatshaala/pkg/metrics"
	"github.com/eccentriccoder01/Bharatshaala/pkg/pagination"
	"github.com/eccentriccoder01/Bharatshaala/pkg/razorpay"
)

// paymentGateway is the slice of the gateway client checkout depends on.
type paymentGateway interface {
	CreateOrder(ctx context.Context, params razorpay.OrderParams) (*razorpay.Order, error)
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
}

// addressResolver resolves an owned shipping address for checkout.
type addressResolver interface {
	GetUserAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
}

// CreateOrderInput is the checkout payload.
type CreateOrderInput struct {
	AddressID     uuid.UUID
	PaymentMethod enums.PaymentMethod
	Notes         *string
}

// VerifyPaymentInput carries the gateway callback fields.
type VerifyPaymentInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// Service exposes checkout, payment, and fulfillment operations.
type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*OrderDTO, error)
	VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*OrderDTO, error)
	InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*PaymentInitiationDTO, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID, reason string) (*OrderDTO, error)
	RefundOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	AdvanceStatus(ctx context.Context, vendorID, orderID uuid.UUID, newStatus enums.OrderStatus, trackingNumber *string) (*OrderDTO, error)

	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID, status *enums.OrderStatus, page pagination.Params) (*OrderPage, error)
	Tracking(ctx context.Context, userID, orderID uuid.UUID) (*TrackingDTO, error)
	ListVendorOrders(ctx context.Context, vendorID uuid.UUID, status *enums.OrderStatus, page pagination.Params) (*OrderPage, error)
	ListAllOrders(ctx context.Context, status *enums.OrderStatus, paymentStatus *enums.PaymentStatus, page pagination.Params) (*OrderPage, error)
}

type service struct {
	repo      *Repository
	cartRepo  *cart.Repository
	products  *catalog.Repository
	addresses addressResolver
	gateway   paymentGateway
	dbClient  *db.Client
	cfg       config.CheckoutConfig
	metrics   *metrics.OrderMetrics
	logg      *logger.Logger
}

// NewService constructs an orders service instance.
func NewService(
	repo *Repository,
	cartRepo *cart.Repository,
	products *catalog.Repository,
	addresses addressResolver,
	gateway paymentGateway,
	dbClient *db.Client,
	cfg config.CheckoutConfig,
	orderMetrics *metrics.OrderMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address resolver required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:      repo,
		cartRepo:  cartRepo,
		products:  products,
		addresses: addresses,
		gateway:   gateway,
		dbClient:  dbClient,
		cfg:       cfg,
		metrics:   orderMetrics,
		logg:      logg,
	}, nil
}

// CreateOrder runs the checkout algorithm: validate the shipping address,
// snapshot the cart, create the gateway order, then atomically re-validate
// stock, decrement it, persist the order, and clear the cart.
func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	dto, err := s.createOrder(ctx, userID, input)
	if s.metrics != nil {
		if err != nil {
			s.metrics.IncCheckout("failure")
		} else {
			s.metrics.IncCheckout("success")
		}
	}
	return dto, err
}

func (s *service) createOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodRazorpay
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	address, err := s.addresses.GetUserAddress(ctx, userID, input.AddressID)
	if err != nil {
		if domainErr := pkgerrors.As(err); domainErr != nil && domainErr.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidAddress, "shipping address not found")
		}
		return nil, err
	}

	lines, err := s.cartRepo.ListLines(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: snapshot cart")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	subtotal := decimal.Zero
	for i := range lines {
		subtotal = subtotal.Add(lines[i].LineTotal())
	}
	shipping := decimal.NewFromInt(s.cfg.ShippingCost)
	total := subtotal.Add(shipping)

	currency, err := enums.ParseCurrency(s.cfg.Currency)
	if err != nil {
		currency = enums.CurrencyINR
	}

	// Cheap non-locking pre-check. The locked re-check inside the
	// transaction stays authoritative; this only keeps a cart that is
	// already stale from leaving an orphaned order at the gateway.
	if err := s.precheckStock(ctx, lines); err != nil {
		return nil, err
	}

	var gatewayOrderID *string
	if method == enums.PaymentMethodRazorpay {
		receipt := razorpay.NewReceipt("rcpt")
		started := time.Now()
		gatewayOrder, err := s.gateway.CreateOrder(ctx, razorpay.OrderParams{
			Amount:   toMinorUnits(total),
			Currency: currency.String(),
			Receipt:  receipt,
		})
		if s.metrics != nil {
			s.metrics.ObserveGatewayCall("create_order", time.Since(started))
		}
		if err != nil {
			return nil, err
		}
		gatewayOrderID = &gatewayOrder.ID
	}

	order := &models.Order{
		UserID:            userID,
		ShippingAddressID: address.ID,
		GatewayOrderID:    gatewayOrderID,
		TotalAmount:       total,
		ShippingAmount:    shipping,
		Currency:          currency,
		Status:            enums.OrderStatusPending,
		PaymentStatus:     enums.PaymentStatusPending,
		PaymentMethod:     method,
		Notes:             input.Notes,
	}

	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txProducts := s.products.WithTx(tx)
		txOrders := s.repo.WithTx(tx)
		txCart := s.cartRepo.WithTx(tx)

		ids := make([]uuid.UUID, 0, len(lines))
		for i := range lines {
			ids = append(ids, lines[i].ProductID)
		}
		locked, err := txProducts.LockForUpdate(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock products")
		}
		byID := make(map[uuid.UUID]*models.Product, len(locked))
		for i := range locked {
			byID[locked[i].ID] = &locked[i]
		}

		items := make([]models.OrderItem, 0, len(lines))
		for i := range lines {
			line := &lines[i]
			product, ok := byID[line.ProductID]
			if !ok || !product.IsPurchasable() {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "product no longer available").
					WithDetails(map[string]any{"product_id": line.ProductID})
			}
			if product.StockQuantity < line.Quantity {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
					WithDetails(map[string]any{
						"product_id": product.ID,
						"requested":  line.Quantity,
						"available":  product.StockQuantity,
					})
			}
			applied, err := txProducts.DecrementStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement stock")
			}
			if !applied {
				// A concurrent checkout won the race for the remaining units.
				return pkgerrors.New(pkgerrors.CodeConflict, "stock changed during checkout").
					WithDetails(map[string]any{"product_id": product.ID})
			}

			items = append(items, models.OrderItem{
				ProductID: product.ID,
				VendorID:  product.VendorID,
				Name:      product.Name,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				LineTotal: line.LineTotal(),
			})
		}

		order.Items = items
		if err := txOrders.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		if err := txCart.ClearUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart")
		}
		return nil
	})
	if txErr != nil {
		return nil, s.mapCheckoutPersistError(ctx, txErr, gatewayOrderID)
	}

	return toOrderDTO(order), nil
}

func (s *service) precheckStock(ctx context.Context, lines []models.CartItem) error {
	ids := make([]uuid.UUID, 0, len(lines))
	for i := range lines {
		ids = append(ids, lines[i].ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for i := range lines {
		line := &lines[i]
		product, ok := byID[line.ProductID]
		if !ok || !product.IsPurchasable() {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "product no longer available").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		if product.StockQuantity < line.Quantity {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
				WithDetails(map[string]any{
					"product_id": product.ID,
					"requested":  line.Quantity,
					"available":  product.StockQuantity,
				})
		}
	}
	return nil
}

// mapCheckoutPersistError keeps domain outcomes (stock, conflict) intact but
// surfaces infrastructure failures after gateway order creation as a gateway
// problem: the money side may already hold an orphan order the client must
// not retry blindly.
func (s *service) mapCheckoutPersistError(ctx context.Context, err error, gatewayOrderID *string) error {
	domainErr := pkgerrors.As(err)
	if domainErr != nil && domainErr.Code() != pkgerrors.CodeDependency {
		return err
	}
	if gatewayOrderID == nil {
		return err
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"gateway_order_id": *gatewayOrderID})
		s.logg.Error(logCtx, "checkout persist failed after gateway order creation", err)
	}
	return pkgerrors.Wrap(pkgerrors.CodeGatewayUnavailable, err, "order could not be finalized")
}

// VerifyPayment validates the gateway signature and promotes the order to
// paid exactly once. Replays and concurrent verifications are no-op success.
func (s *service) VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*OrderDTO, error) {
	order, err := s.repo.FindByGatewayOrderID(ctx, input.GatewayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.countVerification("unknown_order")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}

	if !s.gateway.VerifySignature(input.GatewayOrderID, input.GatewayPaymentID, input.Signature) {
		s.countVerification("invalid_signature")
		return nil, pkgerrors.New(pkgerrors.CodePaymentVerification, "payment signature verification failed")
	}

	applied, err := s.repo.CompletePaymentGuarded(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: complete payment")
	}
	if applied {
		paymentID := strings.TrimSpace(input.GatewayPaymentID)
		attempt := &models.PaymentAttempt{
			OrderID:          order.ID,
			Method:           order.PaymentMethod,
			Amount:           order.TotalAmount,
			Currency:         order.Currency,
			GatewayPaymentID: &paymentID,
			Status:           enums.PaymentAttemptStatusCompleted,
		}
		if err := s.repo.AppendAttempt(ctx, attempt); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append payment attempt")
		}
		s.countVerification("success")
	} else {
		// Already completed; the earlier verification owns the attempt row.
		s.countVerification("replay")
	}

	refreshed, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload order")
	}
	return toOrderDTO(refreshed), nil
}

// InitiatePayment returns the gateway references for a client-side payment
// and records a pending attempt.
func (s *service) InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*PaymentInitiationDTO, error) {
	order, err := s.loadOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == enums.PaymentStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}
	if order.PaymentMethod != enums.PaymentMethodRazorpay || order.GatewayOrderID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has no gateway payment")
	}

	attempt := &models.PaymentAttempt{
		OrderID:  order.ID,
		Method:   order.PaymentMethod,
		Amount:   order.TotalAmount,
		Currency: order.Currency,
		Status:   enums.PaymentAttemptStatusPending,
	}
	if err := s.repo.AppendAttempt(ctx, attempt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append payment attempt")
	}

	return &PaymentInitiationDTO{
		OrderID:        order.ID,
		GatewayOrderID: *order.GatewayOrderID,
		Amount:         order.TotalAmount,
		AmountPaise:    toMinorUnits(order.TotalAmount),
		Currency:       order.Currency.String(),
	}, nil
}

// CancelOrder cancels an owned order with a mandatory reason.
func (s *service) CancelOrder(ctx context.Context, userID, orderID uuid.UUID, reason string) (*OrderDTO, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancellation reason is required")
	}

	order, err := s.loadOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !Cancellable(order.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order cannot be cancelled from status %s", order.Status))
	}

	applied, err := s.repo.UpdateStatusGuarded(ctx, order.ID, order.Status, map[string]any{
		"status":        enums.OrderStatusCancelled,
		"cancel_reason": reason,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: cancel order")
	}
	if !applied {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed, please retry")
	}

	refreshed, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload order")
	}
	return toOrderDTO(refreshed), nil
}

// RefundOrder marks a paid order refunded. Admin surface.
func (s *service) RefundOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	if !Refundable(order.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order cannot be refunded from status %s", order.Status))
	}

	applied, err := s.repo.UpdateStatusGuarded(ctx, order.ID, order.Status, map[string]any{
		"status":         enums.OrderStatusRefunded,
		"payment_status": enums.PaymentStatusRefunded,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: refund order")
	}
	if !applied {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed, please retry")
	}

	attempt := &models.PaymentAttempt{
		OrderID:  order.ID,
		Method:   order.PaymentMethod,
		Amount:   order.TotalAmount,
		Currency: order.Currency,
		Status:   enums.PaymentAttemptStatusRefunded,
	}
	if err := s.repo.AppendAttempt(ctx, attempt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append refund attempt")
	}

	refreshed, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload order")
	}
	return toOrderDTO(refreshed), nil
}

// AdvanceStatus moves an order along the fulfillment state machine on behalf
// of a vendor with lines in the order.
func (s *service) AdvanceStatus(ctx context.Context, vendorID, orderID uuid.UUID, newStatus enums.OrderStatus, trackingNumber *string) (*OrderDTO, error) {
	if !newStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if !VendorMayTarget(newStatus) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden,
			fmt.Sprintf("vendors cannot set status %s", newStatus))
	}

	involved, err := s.repo.HasVendorLines(ctx, orderID, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check vendor lines")
	}
	if !involved {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}

	if !CanTransition(order.Status, newStatus) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, newStatus))
	}

	updates := map[string]any{"status": newStatus}
	if newStatus == enums.OrderStatusShipped {
		if trackingNumber == nil || strings.TrimSpace(*trackingNumber) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking number is required to mark an order shipped")
		}
		tracking := strings.TrimSpace(*trackingNumber)
		updates["tracking_number"] = tracking
	}

	applied, err := s.repo.UpdateStatusGuarded(ctx, order.ID, order.Status, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: advance order status")
	}
	if !applied {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed, please retry")
	}

	refreshed, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload order")
	}
	return toOrderDTO(refreshed), nil
}

// GetOrder returns an owned order with items and payment history.
func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}

// ListOrders returns one page of the user's orders.
func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, status *enums.OrderStatus, page pagination.Params) (*OrderPage, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	rows, total, err := s.repo.ListByUser(ctx, userID, status, pagination.Normalize(page))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return &OrderPage{Orders: toOrderDTOs(rows), TotalItems: total}, nil
}

// Tracking returns the lightweight tracking view of an owned order.
func (s *service) Tracking(ctx context.Context, userID, orderID uuid.UUID) (*TrackingDTO, error) {
	order, err := s.loadOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return &TrackingDTO{
		OrderNumber:    order.OrderNumber,
		Status:         order.Status.String(),
		TrackingNumber: order.TrackingNumber,
		UpdatedAt:      order.UpdatedAt,
	}, nil
}

// ListVendorOrders returns one page of orders with the vendor's lines only.
func (s *service) ListVendorOrders(ctx context.Context, vendorID uuid.UUID, status *enums.OrderStatus, page pagination.Params) (*OrderPage, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	rows, total, err := s.repo.ListForVendor(ctx, vendorID, status, pagination.Normalize(page))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list vendor orders")
	}
	return &OrderPage{Orders: toOrderDTOs(rows), TotalItems: total}, nil
}

// ListAllOrders returns one page across every customer. Admin surface.
func (s *service) ListAllOrders(ctx context.Context, status *enums.OrderStatus, paymentStatus *enums.PaymentStatus, page pagination.Params) (*OrderPage, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if paymentStatus != nil && !paymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	rows, total, err := s.repo.ListAll(ctx, status, paymentStatus, pagination.Normalize(page))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list all orders")
	}
	return &OrderPage{Orders: toOrderDTOs(rows), TotalItems: total}, nil
}

func (s *service) loadOwnedOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	// Somebody else's order reads as not found.
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) countVerification(result string) {
	if s.metrics != nil {
		s.metrics.IncPaymentVerification(result)
	}
}

// toMinorUnits converts a decimal amount to the currency's smallest unit.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
