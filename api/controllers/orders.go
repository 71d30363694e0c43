package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ahmadmoradi/pakhshyar-backend/api/responses"
	"github.com/ahmadmoradi/pakhshyar-backend/api/validators"
	ordersvc "github.com/ahmadmoradi/pakhshyar-backend/internal/orders"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/logger"
)

type orderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type createOrderRequest struct {
	Items       []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Description *string            `json:"description,omitempty"`
}

type replaceOrderRequest struct {
	Items       []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Description *string            `json:"description,omitempty"`
}

func toItemInputs(items []orderItemRequest) ([]ordersvc.ItemInput, error) {
	out := make([]ordersvc.ItemInput, 0, len(items))
	for _, item := range items {
		id, err := validators.ParsePathUUID(item.ProductID, "product_id")
		if err != nil {
			return nil, err
		}
		out = append(out, ordersvc.ItemInput{ProductID: id, Quantity: item.Quantity})
	}
	return out, nil
}

// OrderCreate opens a new order for the authenticated representative.
func OrderCreate(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := toItemInputs(body.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), ordersvc.CreateOrderInput{
			UserID:      actor.UserID,
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

// OrderList returns the representative's own orders, newest first.
func OrderList(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		orders, total, err := svc.ListOrders(r.Context(), actor, ordersvc.ListOrdersQuery{Pagination: page})
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

// OrderSummary returns the representative's order counts by status.
func OrderSummary(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		summary, err := svc.OrderSummary(r.Context(), actor.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// OrderDetail returns one of the representative's orders.
func OrderDetail(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
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

// OrderReplace swaps out the items of a pending order.
func OrderReplace(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body replaceOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := toItemInputs(body.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ReplaceItems(r.Context(), ordersvc.ReplaceItemsInput{
			OrderID:     orderID,
			Actor:       actor,
			Items:       items,
			Description: body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ordersvc.NewOrderDTO(order))
	}
}

// OrderDelete removes one of the representative's pending orders.
func OrderDelete(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
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
