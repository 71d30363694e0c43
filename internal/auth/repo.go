package auth

import (
	"context"

	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
)

// Repository looks up credentials.
type Repository interface {
	FindByNationalID(ctx context.Context, nationalID string) (*models.User, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an auth repository bound to the database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByNationalID(ctx context.Context, nationalID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		First(&user, "national_id = ?", nationalID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
