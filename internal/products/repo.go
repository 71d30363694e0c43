package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/pagination"
)

// Repository handles catalog persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, params ListProductsQuery) ([]models.Product, error)
	Count(ctx context.Context, params ListProductsQuery) (int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListProductsQuery configures catalog list queries.
type ListProductsQuery struct {
	Category   *string
	Pagination pagination.Params
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a product repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) listQuery(ctx context.Context, params ListProductsQuery) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}
	return query
}

func (r *repository) List(ctx context.Context, params ListProductsQuery) ([]models.Product, error) {
	page := params.Pagination.Normalize()
	var products []models.Product
	if err := r.listQuery(ctx, params).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(params.Pagination.Offset()).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) Count(ctx context.Context, params ListProductsQuery) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, params).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}
