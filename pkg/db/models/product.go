package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog entry. Identity is immutable; price, stock
// and description change over time, which is why order items snapshot the
// price at order time.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title         string           `gorm:"column:title;not null"`
	Description   *string          `gorm:"column:description"`
	Category      *string          `gorm:"column:category"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(14,2);not null"`
	PurchasePrice *decimal.Decimal `gorm:"column:purchase_price;type:numeric(14,2)"`
	Stock         int              `gorm:"column:stock;not null;default:0"`
	Image         *string          `gorm:"column:image"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
