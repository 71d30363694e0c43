package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahmadmoradi/pakhshyar-backend/api/responses"
	"github.com/ahmadmoradi/pakhshyar-backend/api/validators"
	paymentsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/payments"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/logger"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/storage/local"
)

const megabyte = 1 << 20

// parsePaymentForm reads the multipart payment submission: amount,
// payment_date and the receipt_image file.
func parsePaymentForm(r *http.Request, store *local.Store, maxUploadMB int) (paymentsvc.RecordPaymentInput, error) {
	var input paymentsvc.RecordPaymentInput

	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	if err := r.ParseMultipartForm(int64(maxUploadMB) * megabyte); err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	rawAmount := strings.TrimSpace(r.FormValue("amount"))
	if rawAmount == "" {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "amount required")
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount")
	}
	input.Amount = amount

	if rawDate := strings.TrimSpace(r.FormValue("payment_date")); rawDate != "" {
		date, err := parseDate(rawDate)
		if err != nil {
			return input, err
		}
		input.PaymentDate = date
	}

	file, header, err := r.FormFile("receipt_image")
	if err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "receipt image required")
	}
	defer file.Close()

	path, err := store.Save(header.Filename, file)
	if err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing receipt")
	}
	input.ReceiptImage = path

	return input, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "payment date must be RFC3339 or YYYY-MM-DD")
}

// PaymentCreate records a receipt against the representative's own order.
func PaymentCreate(svc *paymentsvc.Service, store *local.Store, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
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

		input, err := parsePaymentForm(r, store, maxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.OrderID = orderID
		input.ActorUserID = actor.UserID

		payment, err := svc.RecordPayment(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, paymentsvc.NewPaymentDTO(payment))
	}
}

// PaymentList returns the representative's payments for one order.
func PaymentList(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
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

		payments, err := svc.ListOrderPayments(r.Context(), orderID, actor.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, paymentsvc.NewPaymentDTOs(payments))
	}
}

// AdminPaymentCreate records a receipt against any order.
func AdminPaymentCreate(svc *paymentsvc.Service, store *local.Store, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := parsePaymentForm(r, store, maxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.OrderID = orderID

		payment, err := svc.RecordPayment(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, paymentsvc.NewPaymentDTO(payment))
	}
}

// AdminOrderPayments lists any order's payments, payment date desc.
func AdminOrderPayments(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payments, err := svc.ListOrderPayments(r.Context(), orderID, uuid.Nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, paymentsvc.NewPaymentDTOs(payments))
	}
}

// AdminPaymentDelete removes a payment and re-derives the order's status.
func AdminPaymentDelete(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		paymentID, err := validators.ParsePathUUID(chi.URLParam(r, "paymentId"), "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeletePayment(r.Context(), paymentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminPaymentList is the paginated cross-order listing.
func AdminPaymentList(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := paymentsvc.ListPaymentsQuery{Pagination: page}
		if raw := r.URL.Query().Get("orderId"); raw != "" {
			orderID, err := validators.ParseQueryUUID(r, "orderId")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			query.OrderID = &orderID
		}

		payments, total, err := svc.ListPayments(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"payments": paymentsvc.NewPaymentDTOs(payments),
			"total":    total,
		})
	}
}
