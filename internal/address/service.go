package address

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eccentriccoder01/Bharatshaala/pkg/db"
	"github.com/eccentriccoder01/Bharatshaala/pkg/db/models"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
)

var (
	phonePattern   = regexp.MustCompile(`^(\+91)?[6-9]\d{9}$`)
	pincodePattern = regexp.MustCompile(`^[1-9]\d{5}$`)
)

// DTO is the serialized address shape.
type DTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Line1     string    `json:"line1"`
	Line2     *string   `json:"line2,omitempty"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Pincode   string    `json:"pincode"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInput holds the payload to save a new address.
type CreateInput struct {
	Name      string
	Phone     string
	Line1     string
	Line2     *string
	City      string
	State     string
	Pincode   string
	Country   string
	IsDefault bool
}

// UpdateInput holds optional mutations for a saved address.
type UpdateInput struct {
	Name      *string
	Phone     *string
	Line1     *string
	Line2     *string
	City      *string
	State     *string
	Pincode   *string
	Country   *string
	IsDefault *bool
}

// Service exposes the customer address book.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]DTO, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*DTO, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateInput) (*DTO, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	GetUserAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs an address service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]DTO, error) {
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list addresses")
	}
	out := make([]DTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

// Create saves a new address. The user's first address always becomes the
// default; an explicit default demotes the previous one.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*DTO, error) {
	row := &models.Address{
		UserID:    userID,
		Name:      strings.TrimSpace(input.Name),
		Phone:     strings.TrimSpace(input.Phone),
		Line1:     strings.TrimSpace(input.Line1),
		Line2:     input.Line2,
		City:      strings.TrimSpace(input.City),
		State:     strings.TrimSpace(input.State),
		Pincode:   strings.TrimSpace(input.Pincode),
		Country:   strings.TrimSpace(input.Country),
		IsDefault: input.IsDefault,
	}
	if row.Country == "" {
		row.Country = "India"
	}
	if err := validateAddress(row); err != nil {
		return nil, err
	}

	count, err := s.repo.CountForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count addresses")
	}
	if count == 0 {
		row.IsDefault = true
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if row.IsDefault {
			if err := txRepo.ClearDefault(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear default address")
			}
		}
		if _, err := txRepo.Create(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert address")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	dto := toDTO(row)
	return &dto, nil
}

// Update applies partial mutations to an owned address.
func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateInput) (*DTO, error) {
	row, err := s.loadOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	applyString(&row.Name, input.Name)
	applyString(&row.Phone, input.Phone)
	applyString(&row.Line1, input.Line1)
	if input.Line2 != nil {
		row.Line2 = input.Line2
	}
	applyString(&row.City, input.City)
	applyString(&row.State, input.State)
	applyString(&row.Pincode, input.Pincode)
	applyString(&row.Country, input.Country)
	if err := validateAddress(row); err != nil {
		return nil, err
	}

	makeDefault := input.IsDefault != nil && *input.IsDefault && !row.IsDefault

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if makeDefault {
			if err := txRepo.ClearDefault(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear default address")
			}
			row.IsDefault = true
		}
		if _, err := txRepo.Save(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update address")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	dto := toDTO(row)
	return &dto, nil
}

// Delete removes an owned address.
func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	row, err := s.loadOwned(ctx, userID, addressID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, row.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete address")
	}
	return nil
}

// GetUserAddress resolves an owned address for checkout.
func (s *service) GetUserAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	return s.loadOwned(ctx, userID, addressID)
}

func (s *service) loadOwned(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	row, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load address")
	}
	if row.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return row, nil
}

func validateAddress(row *models.Address) error {
	switch {
	case row.Name == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	case row.Line1 == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "line1 is required")
	case row.City == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	case row.State == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "state is required")
	}
	if !phonePattern.MatchString(row.Phone) {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone must be a valid Indian mobile number")
	}
	if !pincodePattern.MatchString(row.Pincode) {
		return pkgerrors.New(pkgerrors.CodeValidation, "pincode must be a valid 6-digit code")
	}
	return nil
}

func toDTO(row *models.Address) DTO {
	return DTO{
		ID:        row.ID,
		Name:      row.Name,
		Phone:     row.Phone,
		Line1:     row.Line1,
		Line2:     row.Line2,
		City:      row.City,
		State:     row.State,
		Pincode:   row.Pincode,
		Country:   row.Country,
		IsDefault: row.IsDefault,
		CreatedAt: row.CreatedAt,
	}
}
