package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
)

func TestDerivePaymentStatus(t *testing.T) {
	cases := []struct {
		name   string
		paid   string
		total  string
		expect enums.PaymentStatus
	}{
		{"nothing paid", "0", "2000", enums.PaymentStatusUnpaid},
		{"partial", "800", "2000", enums.PaymentStatusPartiallyPaid},
		{"exact", "2000", "2000", enums.PaymentStatusPaid},
		{"overpaid", "2500", "2000", enums.PaymentStatusPaid},
		{"zero total order stays unpaid", "0", "0", enums.PaymentStatusUnpaid},
		{"payment against zero total is partial", "100", "0", enums.PaymentStatusPartiallyPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DerivePaymentStatus(
				decimal.RequireFromString(tc.paid),
				decimal.RequireFromString(tc.total),
			)
			if got != tc.expect {
				t.Fatalf("expected %s, got %s", tc.expect, got)
			}
		})
	}
}

func TestRecordPaymentReconcilesOrder(t *testing.T) {
	order := testOrder("2000.00")
	repo := newStubPaymentRepo(order)
	svc := newTestPaymentService(t, repo)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID:      order.ID,
		Amount:       decimal.RequireFromString("800.00"),
		ReceiptImage: "/uploads/receipt-1.jpg",
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if repo.order.PaymentStatus != enums.PaymentStatusPartiallyPaid {
		t.Fatalf("expected PARTIALLY_PAID, got %s", repo.order.PaymentStatus)
	}

	payment, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID:      order.ID,
		Amount:       decimal.RequireFromString("1200.00"),
		PaymentDate:  time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		ReceiptImage: "/uploads/receipt-2.jpg",
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if repo.order.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected PAID, got %s", repo.order.PaymentStatus)
	}
	if payment.PaymentDate.IsZero() {
		t.Fatalf("expected payment date to be set")
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	order := testOrder("100.00")
	repo := newStubPaymentRepo(order)
	svc := newTestPaymentService(t, repo)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID:      order.ID,
		Amount:       decimal.Zero,
		ReceiptImage: "/uploads/receipt.jpg",
	})
	assertPaymentCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: order.ID,
		Amount:  decimal.RequireFromString("50.00"),
	})
	assertPaymentCode(t, err, pkgerrors.CodeValidation)
}

func TestRecordPaymentScopedToOwnOrders(t *testing.T) {
	order := testOrder("100.00")
	repo := newStubPaymentRepo(order)
	svc := newTestPaymentService(t, repo)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID:      order.ID,
		Amount:       decimal.RequireFromString("50.00"),
		ReceiptImage: "/uploads/receipt.jpg",
		ActorUserID:  uuid.New(),
	})
	assertPaymentCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID:      order.ID,
		Amount:       decimal.RequireFromString("50.00"),
		ReceiptImage: "/uploads/receipt.jpg",
		ActorUserID:  order.UserID,
	})
	if err != nil {
		t.Fatalf("record payment as owner: %v", err)
	}
}

func TestDeletePaymentRecomputesStatus(t *testing.T) {
	order := testOrder("2000.00")
	repo := newStubPaymentRepo(order)
	svc := newTestPaymentService(t, repo)

	first, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID:      order.ID,
		Amount:       decimal.RequireFromString("2000.00"),
		ReceiptImage: "/uploads/receipt.jpg",
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if repo.order.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected PAID, got %s", repo.order.PaymentStatus)
	}

	if err := svc.DeletePayment(context.Background(), first.ID); err != nil {
		t.Fatalf("delete payment: %v", err)
	}
	if repo.order.PaymentStatus != enums.PaymentStatusUnpaid {
		t.Fatalf("expected UNPAID after delete, got %s", repo.order.PaymentStatus)
	}
}

func TestDeletePaymentUnknown(t *testing.T) {
	repo := newStubPaymentRepo(testOrder("100.00"))
	svc := newTestPaymentService(t, repo)

	err := svc.DeletePayment(context.Background(), uuid.New())
	assertPaymentCode(t, err, pkgerrors.CodeNotFound)
}

func TestListOrderPaymentsOrdering(t *testing.T) {
	order := testOrder("100.00")
	repo := newStubPaymentRepo(order)
	svc := newTestPaymentService(t, repo)

	if _, err := svc.ListOrderPayments(context.Background(), order.ID, order.UserID); err != nil {
		t.Fatalf("list as representative: %v", err)
	}
	if repo.lastOrdering != OrderByCreatedAt {
		t.Fatalf("expected created_at ordering for representative, got %s", repo.lastOrdering)
	}

	if _, err := svc.ListOrderPayments(context.Background(), order.ID, uuid.Nil); err != nil {
		t.Fatalf("list as admin: %v", err)
	}
	if repo.lastOrdering != OrderByPaymentDate {
		t.Fatalf("expected payment_date ordering for admin, got %s", repo.lastOrdering)
	}
}

func TestPaymentDTOCarriesOrderContext(t *testing.T) {
	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: uuid.New(),
		Amount:  decimal.RequireFromString("800.00"),
	}

	bare := NewPaymentDTO(payment)
	if bare.OrderNumber != "" || bare.RepresentativeName != "" {
		t.Fatalf("expected bare row without order context, got %q / %q", bare.OrderNumber, bare.RepresentativeName)
	}

	payment.Order = &models.Order{
		ID:          payment.OrderID,
		OrderNumber: "2026-03-0007",
		User:        &models.User{FirstName: "Sara", LastName: "Ahmadi"},
	}
	joined := NewPaymentDTO(payment)
	if joined.OrderNumber != "2026-03-0007" {
		t.Fatalf("expected order number, got %q", joined.OrderNumber)
	}
	if joined.RepresentativeName != "Sara Ahmadi" {
		t.Fatalf("expected representative name, got %q", joined.RepresentativeName)
	}
}

func newTestPaymentService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Tx: stubTxRunner{}})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func testOrder(total string) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusUnpaid,
		TotalAmount:   decimal.RequireFromString(total),
	}
}

func assertPaymentCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubPaymentRepo struct {
	order        *models.Order
	payments     map[uuid.UUID]*models.Payment
	lastOrdering ListOrdering
}

func newStubPaymentRepo(order *models.Order) *stubPaymentRepo {
	return &stubPaymentRepo{
		order:    order,
		payments: map[uuid.UUID]*models.Payment{},
	}
}

func (s *stubPaymentRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPaymentRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	clone := *payment
	s.payments[payment.ID] = &clone
	return nil
}

func (s *stubPaymentRepo) FindPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, ok := s.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *payment
	return &clone, nil
}

func (s *stubPaymentRepo) DeletePayment(ctx context.Context, id uuid.UUID) error {
	delete(s.payments, id)
	return nil
}

func (s *stubPaymentRepo) ListByOrder(ctx context.Context, orderID uuid.UUID, order ListOrdering) ([]models.Payment, error) {
	s.lastOrdering = order
	var out []models.Payment
	for _, payment := range s.payments {
		if payment.OrderID == orderID {
			out = append(out, *payment)
		}
	}
	return out, nil
}

func (s *stubPaymentRepo) ListAll(ctx context.Context, params ListPaymentsQuery) ([]models.Payment, error) {
	var out []models.Payment
	for _, payment := range s.payments {
		if params.OrderID != nil && payment.OrderID != *params.OrderID {
			continue
		}
		out = append(out, *payment)
	}
	return out, nil
}

func (s *stubPaymentRepo) CountAll(ctx context.Context, params ListPaymentsQuery) (int64, error) {
	payments, err := s.ListAll(ctx, params)
	return int64(len(payments)), err
}

func (s *stubPaymentRepo) SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, payment := range s.payments {
		if payment.OrderID == orderID {
			total = total.Add(payment.Amount)
		}
	}
	return total, nil
}

func (s *stubPaymentRepo) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *s.order
	return &clone, nil
}

func (s *stubPaymentRepo) FindOrderForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID || s.order.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *s.order
	return &clone, nil
}

func (s *stubPaymentRepo) UpdateOrderPaymentStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	if s.order != nil && s.order.ID == orderID {
		s.order.PaymentStatus = enums.PaymentStatus(status)
	}
	return nil
}
