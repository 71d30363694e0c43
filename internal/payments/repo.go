package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/pagination"
)

// Repository handles payment persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePayment(ctx context.Context, payment *models.Payment) error
	FindPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	DeletePayment(ctx context.Context, id uuid.UUID) error
	ListByOrder(ctx context.Context, orderID uuid.UUID, order ListOrdering) ([]models.Payment, error)
	ListAll(ctx context.Context, params ListPaymentsQuery) ([]models.Payment, error)
	CountAll(ctx context.Context, params ListPaymentsQuery) (int64, error)
	SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	UpdateOrderPaymentStatus(ctx context.Context, orderID uuid.UUID, status string) error
}

// ListOrdering selects the sort column for per-order payment lists.
type ListOrdering string

const (
	OrderByCreatedAt   ListOrdering = "created_at DESC"
	OrderByPaymentDate ListOrdering = "payment_date DESC"
)

// ListPaymentsQuery configures the admin cross-order listing.
type ListPaymentsQuery struct {
	OrderID    *uuid.UUID
	Pagination pagination.Params
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a payment repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) FindPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Payment{}, "id = ?", id).Error
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID, order ListOrdering) ([]models.Payment, error) {
	if order == "" {
		order = OrderByCreatedAt
	}
	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order(string(order)).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) listQuery(ctx context.Context, params ListPaymentsQuery) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Payment{})
	if params.OrderID != nil {
		query = query.Where("order_id = ?", *params.OrderID)
	}
	return query
}

func (r *repository) ListAll(ctx context.Context, params ListPaymentsQuery) ([]models.Payment, error) {
	page := params.Pagination.Normalize()
	var payments []models.Payment
	if err := r.listQuery(ctx, params).
		Preload("Order").
		Preload("Order.User").
		Order(string(OrderByPaymentDate)).
		Limit(page.Limit).
		Offset(params.Pagination.Offset()).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) CountAll(ctx context.Context, params ListPaymentsQuery) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, params).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("SUM(amount)").
		Where("order_id = ?", orderID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		First(&order, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrderPaymentStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("payment_status", status).Error
}
