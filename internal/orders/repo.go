package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/pagination"
)

// Repository handles order persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOrderForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, params ListOrdersQuery) ([]models.Order, error)
	CountOrders(ctx context.Context, params ListOrdersQuery) (int64, error)
	StatusCounts(ctx context.Context, userID uuid.UUID) (map[enums.OrderStatus]int64, error)
	UpdateOrderFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	CountPayments(ctx context.Context, orderID uuid.UUID) (int64, error)
	CreateItem(ctx context.Context, item *models.OrderItem) error
	FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.OrderItem, error)
	DeleteItem(ctx context.Context, orderID, itemID uuid.UUID) error
	DeleteItems(ctx context.Context, orderID uuid.UUID) error
	ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	FindRepresentative(ctx context.Context, id uuid.UUID) (*models.User, error)
	AllocateSequence(ctx context.Context, monthKey string) (int, error)
}

// ListOrdersQuery configures order list queries. A nil UserID lists across
// all representatives.
type ListOrdersQuery struct {
	UserID     *uuid.UUID
	Status     *enums.OrderStatus
	Pagination pagination.Params
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an order repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("User")
}

func (r *repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.detailQuery(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.detailQuery(ctx).
		First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) listQuery(ctx context.Context, params ListOrdersQuery) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	return query
}

func (r *repository) ListOrders(ctx context.Context, params ListOrdersQuery) ([]models.Order, error) {
	page := params.Pagination.Normalize()
	var orders []models.Order
	if err := r.listQuery(ctx, params).
		Preload("Items.Product").
		Preload("User").
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(params.Pagination.Offset()).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) CountOrders(ctx context.Context, params ListOrdersQuery) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, params).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) StatusCounts(ctx context.Context, userID uuid.UUID) (map[enums.OrderStatus]int64, error) {
	type row struct {
		Status enums.OrderStatus
		Count  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *repository) UpdateOrderFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Select("Items", "Payments").
		Delete(&models.Order{ID: id}).Error
}

func (r *repository) CountPayments(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.WithContext(ctx).
		First(&item, "id = ? AND order_id = ?", itemID, orderID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) DeleteItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND order_id = ?", itemID, orderID).
		Delete(&models.OrderItem{}).Error
}

func (r *repository) DeleteItems(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.OrderItem{}).Error
}

func (r *repository) ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) FindRepresentative(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		First(&user, "id = ? AND role = ?", id, enums.RoleRepresentative).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AllocateSequence bumps the per-month counter and returns the new value in
// one statement so concurrent allocations cannot collide.
func (r *repository) AllocateSequence(ctx context.Context, monthKey string) (int, error) {
	var seq int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO order_counters (month_key, seq)
		VALUES (?, 1)
		ON CONFLICT (month_key) DO UPDATE SET seq = order_counters.seq + 1
		RETURNING seq`, monthKey).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}
