package controllers

import (
	"net/http"

	"github.com/eccentriccoder01/Bharatshaala/api/responses"
	"github.com/eccentriccoder01/Bharatshaala/api/validators"
	"github.com/eccentriccoder01/Bharatshaala/internal/address"
	"github.com/eccentriccoder01/Bharatshaala/pkg/logger"
)

type createAddressRequest struct {
	Name      string  `json:"name" validate:"required"`
	Phone     string  `json:"phone" validate:"required"`
	Line1     string  `json:"line1" validate:"required"`
	Line2     *string `json:"line2,omitempty"`
	City      string  `json:"city" validate:"required"`
	State     string  `json:"state" validate:"required"`
	Pincode   string  `json:"pincode" validate:"required"`
	Country   string  `json:"country" validate:"required"`
	IsDefault bool    `json:"is_default"`
}

type updateAddressRequest struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Line1     *string `json:"line1,omitempty"`
	Line2     *string `json:"line2,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	Pincode   *string `json:"pincode,omitempty"`
	Country   *string `json:"country,omitempty"`
	IsDefault *bool   `json:"is_default,omitempty"`
}

// AddressList returns the caller's address book.
func AddressList(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		addresses, err := svc.List(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, addresses)
	}
}

// AddressCreate saves a new shipping address.
func AddressCreate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload createAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := svc.Create(ctx, userID, address.CreateInput{
			Name:      payload.Name,
			Phone:     payload.Phone,
			Line1:     payload.Line1,
			Line2:     payload.Line2,
			City:      payload.City,
			State:     payload.State,
			Pincode:   payload.Pincode,
			Country:   payload.Country,
			IsDefault: payload.IsDefault,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AddressUpdate applies partial updates to a saved address.
func AddressUpdate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		addressID, err := pathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.Update(ctx, userID, addressID, address.UpdateInput{
			Name:      payload.Name,
			Phone:     payload.Phone,
			Line1:     payload.Line1,
			Line2:     payload.Line2,
			City:      payload.City,
			State:     payload.State,
			Pincode:   payload.Pincode,
			Country:   payload.Country,
			IsDefault: payload.IsDefault,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AddressDelete removes a saved address.
func AddressDelete(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		addressID, err := pathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, userID, addressID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, nil, "address deleted")
	}
}
