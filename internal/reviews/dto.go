package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
)

// ReviewDTO is the serialized review shape.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewPage is one page of reviews plus its pagination metadata inputs.
type ReviewPage struct {
	Reviews    []ReviewDTO
	TotalItems int64
}

func toReviewDTO(review *models.Review) *ReviewDTO {
	if review == nil {
		return nil
	}
	return &ReviewDTO{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}

func toReviewDTOs(rows []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toReviewDTO(&rows[i]))
	}
	return out
}
