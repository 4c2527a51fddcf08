package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eccentriccoder01/Bharatshaala/pkg/db"
	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
	"github.com/eccentriccoder01/Bharatshaala/pkg/pagination"
)

// productReader resolves product rows for existence checks.
type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// AddReviewInput is the validated review payload.
type AddReviewInput struct {
	Rating  int
	Comment *string
}

// Service exposes the product review surface.
type Service interface {
	ListByProduct(ctx context.Context, productID uuid.UUID, page pagination.Params) (*ReviewPage, error)
	Add(ctx context.Context, userID, productID uuid.UUID, input AddReviewInput) (*ReviewDTO, error)
}

type service struct {
	repo     *Repository
	products productReader
	dbClient *db.Client
}

// NewService constructs a reviews service instance.
func NewService(repo *Repository, products productReader, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, products: products, dbClient: dbClient}, nil
}

// ListByProduct returns one page of a product's reviews, newest first.
func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID, page pagination.Params) (*ReviewPage, error) {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}
	rows, total, err := s.repo.ListByProduct(ctx, productID, pagination.Normalize(page))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reviews")
	}
	return &ReviewPage{Reviews: toReviewDTOs(rows), TotalItems: total}, nil
}

// Add records a verified-purchase review and rolls the product's rating and
// review_count forward in the same transaction.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID, input AddReviewInput) (*ReviewDTO, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}

	purchased, err := s.repo.HasUserPurchased(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check purchase")
	}
	if !purchased {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only purchased products can be reviewed")
	}

	reviewed, err := s.repo.HasUserReviewed(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check existing review")
	}
	if reviewed {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    input.Rating,
		Comment:   normalizeComment(input.Comment),
	}
	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Create(ctx, review); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already reviewed")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert review")
		}
		if err := txRepo.RefreshProductAggregates(ctx, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: refresh product rating")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return toReviewDTO(review), nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func normalizeComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
