package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
)

// PaymentDTO is the public shape of a payment record. The order fields are
// only filled on the admin cross-order listing, where rows arrive with
// their order preloaded.
type PaymentDTO struct {
	ID                 uuid.UUID       `json:"id"`
	OrderID            uuid.UUID       `json:"order_id"`
	Amount             decimal.Decimal `json:"amount"`
	PaymentDate        time.Time       `json:"payment_date"`
	ReceiptImage       string          `json:"receipt_image"`
	CreatedAt          time.Time       `json:"created_at"`
	OrderNumber        string          `json:"order_number,omitempty"`
	RepresentativeName string          `json:"representative_name,omitempty"`
}

// NewPaymentDTO maps the model onto its public shape.
func NewPaymentDTO(payment *models.Payment) *PaymentDTO {
	if payment == nil {
		return nil
	}
	dto := &PaymentDTO{
		ID:           payment.ID,
		OrderID:      payment.OrderID,
		Amount:       payment.Amount,
		PaymentDate:  payment.PaymentDate,
		ReceiptImage: payment.ReceiptImage,
		CreatedAt:    payment.CreatedAt,
	}
	if payment.Order != nil {
		dto.OrderNumber = payment.Order.OrderNumber
		if payment.Order.User != nil {
			dto.RepresentativeName = payment.Order.User.FirstName + " " + payment.Order.User.LastName
		}
	}
	return dto
}

// NewPaymentDTOs maps a slice of payments.
func NewPaymentDTOs(payments []models.Payment) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(payments))
	for i := range payments {
		out = append(out, *NewPaymentDTO(&payments[i]))
	}
	return out
}
