package documents

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
)

// Repository persists representative file records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateDocument(ctx context.Context, doc *models.Document) error
	CreateContract(ctx context.Context, contract *models.Contract) error
	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a document repository bound to the database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateDocument(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *repository) CreateContract(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *repository) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
