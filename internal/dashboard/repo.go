package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
)

// Repository runs the aggregate queries behind the admin dashboard.
type Repository interface {
	CountRepresentatives(ctx context.Context, createdBefore *time.Time, activeOnly bool) (int64, error)
	CountProducts(ctx context.Context, createdBefore *time.Time) (int64, error)
	CountOrders(ctx context.Context, createdBefore *time.Time, status *enums.OrderStatus) (int64, error)
	ListActiveRepresentatives(ctx context.Context) ([]models.User, error)
	OrderCountsByUser(ctx context.Context) (map[uuid.UUID]int64, error)
	RecentOrderCountsByUser(ctx context.Context, since time.Time) (map[uuid.UUID]int64, error)
	RecentOrders(ctx context.Context, limit int) ([]models.Order, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a dashboard repository bound to the database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountRepresentatives(ctx context.Context, createdBefore *time.Time, activeOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", enums.RoleRepresentative)
	if createdBefore != nil {
		query = query.Where("created_at < ?", *createdBefore)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountProducts(ctx context.Context, createdBefore *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if createdBefore != nil {
		query = query.Where("created_at < ?", *createdBefore)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountOrders(ctx context.Context, createdBefore *time.Time, status *enums.OrderStatus) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if createdBefore != nil {
		query = query.Where("created_at < ?", *createdBefore)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ListActiveRepresentatives(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", enums.RoleRepresentative, true).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) countsByUser(ctx context.Context, query *gorm.DB) (map[uuid.UUID]int64, error) {
	type row struct {
		UserID uuid.UUID
		Count  int64
	}
	var rows []row
	if err := query.
		Select("user_id, COUNT(*) AS count").
		Group("user_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.Count
	}
	return counts, nil
}

func (r *repository) OrderCountsByUser(ctx context.Context) (map[uuid.UUID]int64, error) {
	return r.countsByUser(ctx, r.db.WithContext(ctx).Model(&models.Order{}))
}

func (r *repository) RecentOrderCountsByUser(ctx context.Context, since time.Time) (map[uuid.UUID]int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ?", since).
		Where("status <> ?", enums.OrderStatusCancelled)
	return r.countsByUser(ctx, query)
}

func (r *repository) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
