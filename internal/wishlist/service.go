package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eccentriccoder01/Bharatshaala/pkg/db"
	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
)

// productReader resolves product rows for existence checks.
type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ItemDTO is one serialized wishlist entry.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Status      string          `json:"status"`
	AddedAt     time.Time       `json:"added_at"`
}

// Service exposes wishlist operations for a single customer.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error)
	Add(ctx context.Context, userID, productID uuid.UUID) (*ItemDTO, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

type service struct {
	repo     *Repository
	products productReader
}

// NewService constructs a wishlist service instance.
func NewService(repo *Repository, products productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list wishlist")
	}
	out := make([]ItemDTO, 0, len(items))
	for i := range items {
		out = append(out, toItemDTO(&items[i]))
	}
	return out, nil
}

// Add saves a product to the wishlist. Saving the same product twice is a
// conflict.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) (*ItemDTO, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	item := &models.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already wishlisted")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert wishlist item")
	}
	created.Product = product
	dto := toItemDTO(created)
	return &dto, nil
}

// Remove deletes the wishlist entry. Removing an absent entry succeeds.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.repo.DeleteByProduct(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete wishlist item")
	}
	return nil
}

func toItemDTO(item *models.WishlistItem) ItemDTO {
	dto := ItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		AddedAt:   item.CreatedAt,
	}
	if item.Product != nil {
		dto.ProductName = item.Product.Name
		dto.Price = item.Product.EffectivePrice()
		dto.Status = item.Product.Status.String()
	}
	return dto
}
