package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ahmadmoradi/pakhshyar-backend/api/responses"
	"github.com/ahmadmoradi/pakhshyar-backend/api/validators"
	ordersvc "github.com/ahmadmoradi/pakhshyar-backend/internal/orders"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/logger"
)

type adminCreateOrderRequest struct {
	UserID      string             `json:"user_id" validate:"required,uuid"`
	Items       []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Description *string            `json:"description,omitempty"`
}

type adminReplaceOrderRequest struct {
	Items         []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Description   *string            `json:"description,omitempty"`
	Status        *string            `json:"status,omitempty"`
	PaymentStatus *string            `json:"payment_status,omitempty"`
}

type adminPatchOrderRequest struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
	Description   *string `json:"description,omitempty"`
}

type adminAddItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity" validate:"required,min=1"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

// AdminOrderList returns orders across all representatives.
func AdminOrderList(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := ordersvc.ListOrdersQuery{Pagination: page}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			query.Status = &status
		}

		orders, total, err := svc.ListOrders(r.Context(), actor, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"orders": ordersvc.NewOrderDTOs(orders),
			"total":  total,
		})
	}
}

// AdminOrderCreate opens an order on behalf of a representative.
func AdminOrderCreate(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var body adminCreateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := validators.ParsePathUUID(body.UserID, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := toItemInputs(body.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), ordersvc.CreateOrderInput{
			UserID:      userID,
			Items:       items,
			Description: body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ordersvc.NewOrderDTO(order))
	}
}

// AdminOrderDetail returns any order by id.
func AdminOrderDetail(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), actor, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ordersvc.NewOrderDTO(order))
	}
}

// AdminOrderReplace swaps the order's items and optionally patches the
// status fields in the same request.
func AdminOrderReplace(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adminReplaceOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := toItemInputs(body.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ordersvc.ReplaceItemsInput{
			OrderID:     orderID,
			Actor:       actor,
			Items:       items,
			Description: body.Description,
		}
		if body.Status != nil {
			status, err := enums.ParseOrderStatus(*body.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}
		if body.PaymentStatus != nil {
			status, err := enums.ParsePaymentStatus(*body.PaymentStatus)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
				return
			}
			input.PaymentStatus = &status
		}

		order, err := svc.ReplaceItems(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ordersvc.NewOrderDTO(order))
	}
}

// AdminOrderPatch updates the status fields without touching the items.
func AdminOrderPatch(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adminPatchOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ordersvc.UpdateStatusInput{OrderID: orderID, Description: body.Description}
		if body.Status != nil {
			status, err := enums.ParseOrderStatus(*body.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}
		if body.PaymentStatus != nil {
			status, err := enums.ParsePaymentStatus(*body.PaymentStatus)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
				return
			}
			input.PaymentStatus = &status
		}

		order, err := svc.UpdateStatus(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ordersvc.NewOrderDTO(order))
	}
}

// AdminOrderDelete removes any order without recorded payments.
func AdminOrderDelete(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOrder(r.Context(), ordersvc.DeleteOrderInput{OrderID: orderID, Actor: actor}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminOrderAddItem appends a line to an order.
func AdminOrderAddItem(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adminAddItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParsePathUUID(body.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AddItem(r.Context(), ordersvc.AddItemInput{
			OrderID:   orderID,
			ProductID: productID,
			Quantity:  body.Quantity,
			Price:     body.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ordersvc.NewOrderDTO(order))
	}
}

// AdminOrderRemoveItem removes one line identified by the itemId query param.
func AdminOrderRemoveItem(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.ParseQueryUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.RemoveItem(r.Context(), orderID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ordersvc.NewOrderDTO(order))
	}
}
