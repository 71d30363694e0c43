package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is an ancillary file attached to a representative.
type Document struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Title     string    `gorm:"column:title;not null"`
	FileURL   string    `gorm:"column:file_url;not null"`
	FileType  string    `gorm:"column:file_type;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
