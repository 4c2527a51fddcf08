package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eccentriccoder01/Bharatshaala/pkg/db"
	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
)

// productReader resolves product rows for stock and price checks.
type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart operations for a single customer.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Snapshot, error)
	UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*Snapshot, error)
	Remove(ctx context.Context, userID, lineID uuid.UUID) (*Snapshot, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	Snapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
}

type service struct {
	repo     *Repository
	products productReader
}

// NewService constructs a cart service instance.
func NewService(repo *Repository, products productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{repo: repo, products: products}, nil
}

// Add puts quantity units of a product into the cart. An existing line for
// the same product is merged, and the stock check runs against the merged
// total so two adds cannot promise more than the listing holds. The unit
// price is captured at call time.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Snapshot, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}

	product, err := s.loadSellableProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	// Two concurrent adds for the same product race the read-then-write;
	// the loser's insert hits the (user_id, product_id) unique index and
	// retries as a merge against the winner's line.
	if err := s.mergeLine(ctx, userID, product, quantity); err != nil {
		if !db.IsUniqueViolation(err, "") {
			return nil, err
		}
		if err := s.mergeLine(ctx, userID, product, quantity); err != nil {
			return nil, err
		}
	}

	return s.Snapshot(ctx, userID)
}

func (s *service) mergeLine(ctx context.Context, userID uuid.UUID, product *models.Product, quantity int) error {
	existing, err := s.repo.FindLine(ctx, userID, product.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart line")
	}

	mergedQty := quantity
	if existing != nil {
		mergedQty += existing.Quantity
	}
	if err := ensureStock(product, mergedQty); err != nil {
		return err
	}

	if existing != nil {
		existing.Quantity = mergedQty
		if _, err := s.repo.SaveLine(ctx, existing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: merge cart line")
		}
		return nil
	}

	line := &models.CartItem{
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: product.EffectivePrice(),
	}
	if _, err := s.repo.CreateLine(ctx, line); err != nil {
		if db.IsUniqueViolation(err, "") {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert cart line")
	}
	return nil
}

// UpdateQuantity sets an owned line to an absolute quantity after re-checking
// stock.
func (s *service) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*Snapshot, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}

	line, err := s.loadOwnedLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}

	product, err := s.loadSellableProduct(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if err := ensureStock(product, quantity); err != nil {
		return nil, err
	}

	line.Quantity = quantity
	if _, err := s.repo.SaveLine(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart line")
	}
	return s.Snapshot(ctx, userID)
}

// Remove deletes an owned cart line.
func (s *service) Remove(ctx context.Context, userID, lineID uuid.UUID) (*Snapshot, error) {
	line, err := s.loadOwnedLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteLine(ctx, line.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete cart line")
	}
	return s.Snapshot(ctx, userID)
}

// Clear empties the cart. Clearing an empty cart succeeds.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.ClearUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart")
	}
	return nil
}

// Snapshot returns the ordered cart lines with exact decimal totals.
func (s *service) Snapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	lines, err := s.repo.ListLines(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list cart lines")
	}
	return toSnapshot(lines), nil
}

func (s *service) loadOwnedLine(ctx context.Context, userID, lineID uuid.UUID) (*models.CartItem, error) {
	line, err := s.repo.FindLineByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart line")
	}
	// Somebody else's line reads as not found.
	if line.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return line, nil
}

func (s *service) loadSellableProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	switch product.Status {
	case enums.ProductStatusActive:
		return product, nil
	case enums.ProductStatusOutOfStock:
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "product is out of stock").
			WithDetails(map[string]any{"product_id": product.ID, "available": 0})
	default:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
}

func ensureStock(product *models.Product, requested int) error {
	if product.StockQuantity < requested {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{
				"product_id": product.ID,
				"requested":  requested,
				"available":  product.StockQuantity,
			})
	}
	return nil
}
