package orders

import (
	"net/http"
	"strings"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/middleware"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/responses"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/validators"
	internalorders "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/orders"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/pagination"
)

type checkoutRequest struct {
	CustomerName    string `json:"customer_name" validate:"required,max=120"`
	CustomerPhone   string `json:"customer_phone" validate:"required,max=30"`
	DeliveryAddress string `json:"delivery_address" validate:"required,max=300"`
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=pix credit_card debit_card cash"`
	Notes           string `json:"notes" validate:"max=500"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Checkout places an order from the session's cart.
func Checkout(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Checkout(r.Context(), middleware.SessionIDFromContext(r.Context()), internalorders.CheckoutInput{
			CustomerName:    validators.SanitizeString(payload.CustomerName, 120),
			CustomerPhone:   payload.CustomerPhone,
			DeliveryAddress: validators.SanitizeString(payload.DeliveryAddress, 300),
			PaymentMethod:   enums.PaymentMethod(payload.PaymentMethod),
			Notes:           validators.SanitizeString(payload.Notes, 500),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// List pages orders newest first, filtered by session_id, phone and status.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		filters := internalorders.ListFilters{
			SessionID: strings.TrimSpace(query.Get("session_id")),
			Phone:     strings.TrimSpace(query.Get("phone")),
		}
		if raw := strings.TrimSpace(query.Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}

		list, err := svc.List(r.Context(), filters, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(query.Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UpdateStatus moves an order to a new status.
func UpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload statusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, enums.OrderStatus(strings.TrimSpace(payload.Status)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
