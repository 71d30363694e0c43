package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
)

// ProductDTO is the public shape of a catalog entry. The purchase price is
// admin-only and omitted from the representative catalog.
type ProductDTO struct {
	ID            uuid.UUID        `json:"id"`
	Title         string           `json:"title"`
	Description   *string          `json:"description,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	Stock         int              `json:"stock"`
	Image         *string          `json:"image,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewProductDTO maps the model onto its public shape. Pass includeCost for
// admin reads only.
func NewProductDTO(product *models.Product, includeCost bool) *ProductDTO {
	if product == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		Category:    product.Category,
		Price:       product.Price,
		Stock:       product.Stock,
		Image:       product.Image,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if includeCost {
		dto.PurchasePrice = product.PurchasePrice
	}
	return dto
}

// NewProductDTOs maps a slice of products.
func NewProductDTOs(products []models.Product, includeCost bool) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *NewProductDTO(&products[i], includeCost))
	}
	return out
}
