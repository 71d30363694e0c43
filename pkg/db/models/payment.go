package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records one bank receipt submitted against an order. Payments are
// immutable once created; deletion is the only mutation path.
type Payment struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	Amount       decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	PaymentDate  time.Time       `gorm:"column:payment_date;not null"`
	ReceiptImage string          `gorm:"column:receipt_image;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`

	Order *Order `gorm:"foreignKey:OrderID"`
}
