package representatives

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/pagination"
)

// Repository handles representative persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, params ListQuery) ([]models.User, error)
	Count(ctx context.Context, params ListQuery) (int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListQuery configures representative list queries.
type ListQuery struct {
	IsActive   *bool
	City       *string
	Pagination pagination.Params
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a representative repository bound to the database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("role = ?", enums.RoleRepresentative)
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.scoped(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindDetailByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.scoped(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Contracts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) listQuery(ctx context.Context, params ListQuery) *gorm.DB {
	query := r.scoped(ctx).Model(&models.User{})
	if params.IsActive != nil {
		query = query.Where("is_active = ?", *params.IsActive)
	}
	if params.City != nil {
		query = query.Where("city = ?", *params.City)
	}
	return query
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.User, error) {
	page := params.Pagination.Normalize()
	var users []models.User
	if err := r.listQuery(ctx, params).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(params.Pagination.Offset()).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) Count(ctx context.Context, params ListQuery) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, params).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND role = ?", id, enums.RoleRepresentative).
		Updates(fields).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Select("Documents", "Contracts").
		Delete(&models.User{ID: id}).Error
}
