package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service reconciles payments against orders.
type Service struct {
	repo Repository
	tx   txRunner
}

// ServiceParams groups dependencies for the payment service.
type ServiceParams struct {
	Repo Repository
	Tx   txRunner
}

// NewService builds a payment service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Tx == nil {
		return nil, errors.New("tx runner is required")
	}
	return &Service{repo: params.Repo, tx: params.Tx}, nil
}

// DerivePaymentStatus maps the paid total onto the order's payment state.
// Overpayment still reads as PAID.
func DerivePaymentStatus(totalPaid, totalAmount decimal.Decimal) enums.PaymentStatus {
	switch {
	case totalPaid.GreaterThanOrEqual(totalAmount) && totalAmount.IsPositive():
		return enums.PaymentStatusPaid
	case totalPaid.IsPositive():
		return enums.PaymentStatusPartiallyPaid
	default:
		return enums.PaymentStatusUnpaid
	}
}

// RecordPaymentInput captures one submitted receipt.
type RecordPaymentInput struct {
	OrderID      uuid.UUID
	Amount       decimal.Decimal
	PaymentDate  time.Time
	ReceiptImage string

	// ActorUserID restricts the order lookup to the representative's own
	// orders. Zero for the admin path.
	ActorUserID uuid.UUID
}

// RecordPayment stores the payment and recomputes the order's payment
// status from the full paid total in one transaction.
func (s *Service) RecordPayment(ctx context.Context, input RecordPaymentInput) (*models.Payment, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	if input.ReceiptImage == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "receipt image required")
	}
	if input.PaymentDate.IsZero() {
		input.PaymentDate = time.Now().UTC()
	}

	var created *models.Payment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.findOrder(ctx, repo, input.OrderID, input.ActorUserID)
		if err != nil {
			return err
		}

		payment := &models.Payment{
			ID:           uuid.New(),
			OrderID:      order.ID,
			Amount:       input.Amount,
			PaymentDate:  input.PaymentDate,
			ReceiptImage: input.ReceiptImage,
		}
		if err := repo.CreatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating payment")
		}

		if err := s.reconcile(ctx, repo, order); err != nil {
			return err
		}
		created = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeletePayment removes a payment and re-derives the order's payment status
// from the remaining payments.
func (s *Service) DeletePayment(ctx context.Context, paymentID uuid.UUID) error {
	if paymentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		payment, err := repo.FindPayment(ctx, paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment")
		}

		if err := repo.DeletePayment(ctx, payment.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting payment")
		}

		order, err := s.findOrder(ctx, repo, payment.OrderID, uuid.Nil)
		if err != nil {
			return err
		}
		return s.reconcile(ctx, repo, order)
	})
}

// ListOrderPayments returns an order's payments. Representatives only see
// their own orders and get the submission order; admins get payment date
// order.
func (s *Service) ListOrderPayments(ctx context.Context, orderID, actorUserID uuid.UUID) ([]models.Payment, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if _, err := s.findOrder(ctx, s.repo, orderID, actorUserID); err != nil {
		return nil, err
	}

	ordering := OrderByPaymentDate
	if actorUserID != uuid.Nil {
		ordering = OrderByCreatedAt
	}
	payments, err := s.repo.ListByOrder(ctx, orderID, ordering)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing payments")
	}
	return payments, nil
}

// ListPayments is the admin cross-order listing, payment date desc.
func (s *Service) ListPayments(ctx context.Context, params ListPaymentsQuery) ([]models.Payment, int64, error) {
	payments, err := s.repo.ListAll(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing payments")
	}
	total, err := s.repo.CountAll(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting payments")
	}
	return payments, total, nil
}

func (s *Service) findOrder(ctx context.Context, repo Repository, orderID, actorUserID uuid.UUID) (*models.Order, error) {
	var (
		order *models.Order
		err   error
	)
	if actorUserID != uuid.Nil {
		order, err = repo.FindOrderForUser(ctx, orderID, actorUserID)
	} else {
		order, err = repo.FindOrder(ctx, orderID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *Service) reconcile(ctx context.Context, repo Repository, order *models.Order) error {
	totalPaid, err := repo.SumByOrder(ctx, order.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing payments")
	}
	status := DerivePaymentStatus(totalPaid, order.TotalAmount)
	if status == order.PaymentStatus {
		return nil
	}
	if err := repo.UpdateOrderPaymentStatus(ctx, order.ID, status.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating payment status")
	}
	return nil
}
