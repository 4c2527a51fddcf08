package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eccentriccoder01/Bharatshaala/api/responses"
	"github.com/eccentriccoder01/Bharatshaala/api/validators"
	"github.com/eccentriccoder01/Bharatshaala/internal/catalog"
	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
	"github.com/eccentriccoder01/Bharatshaala/pkg/logger"
	"github.com/eccentriccoder01/Bharatshaala/pkg/pagination"
)

const maxSearchLen = 128

// ListProducts serves the public product listing with filters and pagination.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		page, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		categoryID, err := queryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		marketID, err := queryUUID(r, "market_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.ListProducts(ctx, catalog.ListProductsInput{
			CategoryID: categoryID,
			MarketID:   marketID,
			Search:     validators.SanitizeString(r.URL.Query().Get("search"), maxSearchLen),
			Pagination: page,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessPage(w, result.Products, pagination.BuildMeta(page, result.TotalItems))
	}
}

// GetProduct serves a single public product.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.GetProduct(ctx, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ListCategories serves the active category tree.
func ListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// ListMarkets serves the active markets.
func ListMarkets(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		markets, err := svc.ListMarkets(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, markets)
	}
}

type createProductRequest struct {
	CategoryID      string           `json:"category_id" validate:"required,uuid"`
	MarketID        *string          `json:"market_id,omitempty" validate:"omitempty,uuid"`
	SKU             *string          `json:"sku,omitempty"`
	Name            string           `json:"name" validate:"required"`
	Description     *string          `json:"description,omitempty"`
	Price           decimal.Decimal  `json:"price" validate:"required"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	StockQuantity   int              `json:"stock_quantity" validate:"min=0"`
	Status          *string          `json:"status,omitempty"`
}

func (p createProductRequest) toInput() (catalog.CreateProductInput, error) {
	input := catalog.CreateProductInput{
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		StockQuantity:   p.StockQuantity,
	}

	categoryID, err := parseBodyUUID(p.CategoryID, "category_id")
	if err != nil {
		return catalog.CreateProductInput{}, err
	}
	input.CategoryID = categoryID

	if p.MarketID != nil {
		marketID, err := parseBodyUUID(*p.MarketID, "market_id")
		if err != nil {
			return catalog.CreateProductInput{}, err
		}
		input.MarketID = &marketID
	}

	if p.Status != nil {
		status, err := enums.ParseProductStatus(strings.TrimSpace(*p.Status))
		if err != nil {
			return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = status
	}
	return input, nil
}

// VendorCreateProduct creates a listing owned by the authenticated vendor.
func VendorCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		vendorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.CreateProduct(ctx, vendorID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	CategoryID      *string          `json:"category_id,omitempty" validate:"omitempty,uuid"`
	MarketID        *string          `json:"market_id,omitempty" validate:"omitempty,uuid"`
	SKU             *string          `json:"sku,omitempty"`
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	StockQuantity   *int             `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
	Status          *string          `json:"status,omitempty"`
}

func (p updateProductRequest) toInput() (catalog.UpdateProductInput, error) {
	input := catalog.UpdateProductInput{
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		StockQuantity:   p.StockQuantity,
	}

	if p.CategoryID != nil {
		categoryID, err := parseBodyUUID(*p.CategoryID, "category_id")
		if err != nil {
			return catalog.UpdateProductInput{}, err
		}
		input.CategoryID = &categoryID
	}
	if p.MarketID != nil {
		marketID, err := parseBodyUUID(*p.MarketID, "market_id")
		if err != nil {
			return catalog.UpdateProductInput{}, err
		}
		input.MarketID = &marketID
	}
	if p.Status != nil {
		status, err := enums.ParseProductStatus(strings.TrimSpace(*p.Status))
		if err != nil {
			return catalog.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = &status
	}
	return input, nil
}

// VendorUpdateProduct applies partial updates to a vendor-owned listing.
func VendorUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		vendorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(ctx, vendorID, productID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// VendorDeleteProduct removes a vendor-owned listing.
func VendorDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		vendorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteProduct(ctx, vendorID, productID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, nil, "product deleted")
	}
}

// VendorListProducts serves the vendor's own listings, any status.
func VendorListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		vendorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		page, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := catalog.ListVendorProductsInput{
			Search:     validators.SanitizeString(r.URL.Query().Get("search"), maxSearchLen),
			Pagination: page,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseProductStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}

		result, err := svc.ListVendorProducts(ctx, vendorID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessPage(w, result.Products, pagination.BuildMeta(page, result.TotalItems))
	}
}
