package models

import (
	"time"

	"github.com/google/uuid"
)

// Contract is a signed agreement file attached to a representative.
type Contract struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Title     string    `gorm:"column:title;not null"`
	FileURL   string    `gorm:"column:file_url;not null"`
	StartDate time.Time `gorm:"column:start_date;not null"`
	EndDate   time.Time `gorm:"column:end_date;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
