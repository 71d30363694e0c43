package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
)

// User represents the canonical identity entity. The role discriminator
// separates back-office admins from field representatives.
type User struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Role            enums.Role `gorm:"column:role;type:text;not null;default:'REPRESENTATIVE'"`
	FirstName       string     `gorm:"column:first_name;not null"`
	LastName        string     `gorm:"column:last_name;not null"`
	FatherName      *string    `gorm:"column:father_name"`
	NationalID      string     `gorm:"column:national_id;not null;uniqueIndex"`
	PhoneNumber     string     `gorm:"column:phone_number;not null"`
	City            string     `gorm:"column:city;not null"`
	Address         *string    `gorm:"column:address"`
	EducationCenter *string    `gorm:"column:education_center"`
	IsActive        bool       `gorm:"column:is_active;not null;default:true"`
	ProfileImage    *string    `gorm:"column:profile_image"`
	PasswordHash    string     `gorm:"column:password_hash;not null"`
	Orders          []Order    `gorm:"foreignKey:UserID"`
	Documents       []Document `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Contracts       []Contract `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
