package controllers

import (
	"net/http"
	"strings"

	"github.com/eccentriccoder01/Bharatshaala/api/responses"
	"github.com/eccentriccoder01/Bharatshaala/api/validators"
	"github.com/eccentriccoder01/Bharatshaala/internal/orders"
	"github.com/eccentriccoder01/Bharatshaala/pkg/enums"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
	"github.com/eccentriccoder01/Bharatshaala/pkg/logger"
	"github.com/eccentriccoder01/Bharatshaala/pkg/pagination"
)

// AdminListOrders serves the platform-wide order listing with optional status
// and payment_status filters.
func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		page, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, err := queryOrderStatus(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		paymentStatus, err := queryPaymentStatus(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.ListAllOrders(ctx, status, paymentStatus, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessPage(w, result.Orders, pagination.BuildMeta(page, result.TotalItems))
	}
}

func queryPaymentStatus(r *http.Request) (*enums.PaymentStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("payment_status"))
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParsePaymentStatus(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status")
	}
	return &status, nil
}

// AdminRefundOrder refunds a paid order on behalf of operations staff.
func AdminRefundOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.RefundOrder(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
