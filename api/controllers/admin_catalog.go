package controllers

import (
	"net/http"
	"strings"

	"github.com/eccentriccoder01/Bharatshaala/api/responses"
	"github.com/eccentriccoder01/Bharatshaala/api/validators"
	"github.com/eccentriccoder01/Bharatshaala/internal/catalog"
	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
	"github.com/eccentriccoder01/Bharatshaala/pkg/logger"
)

type createCategoryRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	ParentID    *string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ParentID    *string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type createMarketRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
}

type updateMarketRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type setProductStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminCreateCategory adds a category to the browsable tree.
func AdminCreateCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input := catalog.CreateCategoryInput{
			Name:        payload.Name,
			Description: payload.Description,
		}
		if payload.ParentID != nil {
			parentID, err := parseBodyUUID(*payload.ParentID, "parent_id")
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.ParentID = &parentID
		}

		category, err := svc.CreateCategory(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// AdminUpdateCategory applies partial updates to a category.
func AdminUpdateCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		categoryID, err := pathUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input := catalog.UpdateCategoryInput{
			Name:        payload.Name,
			Description: payload.Description,
			IsActive:    payload.IsActive,
		}
		if payload.ParentID != nil {
			parentID, err := parseBodyUUID(*payload.ParentID, "parent_id")
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.ParentID = &parentID
		}

		category, err := svc.UpdateCategory(ctx, categoryID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// AdminCreateMarket adds a market vendors can list under.
func AdminCreateMarket(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createMarketRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		market, err := svc.CreateMarket(ctx, catalog.CreateMarketInput{
			Name:        payload.Name,
			Description: payload.Description,
			Location:    payload.Location,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, market)
	}
}

// AdminUpdateMarket applies partial updates to a market.
func AdminUpdateMarket(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		marketID, err := pathUUID(r, "marketId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateMarketRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		market, err := svc.UpdateMarket(ctx, marketID, catalog.UpdateMarketInput{
			Name:        payload.Name,
			Description: payload.Description,
			Location:    payload.Location,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, market)
	}
}

// AdminSetProductStatus moderates any vendor's listing.
func AdminSetProductStatus(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload setProductStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, err := enums.ParseProductStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		product, err := svc.SetProductStatus(ctx, productID, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
