package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
)

// Order is the aggregate root for a representative's purchase. TotalAmount
// is denormalized and must equal the sum of item price times quantity after
// every item mutation.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber   string              `gorm:"column:order_number;not null;uniqueIndex"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'PENDING'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'UNPAID'"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(14,2);not null"`
	Description   *string             `gorm:"column:description"`
	User          *User               `gorm:"foreignKey:UserID"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments      []Payment           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
