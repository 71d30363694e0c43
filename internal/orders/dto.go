package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
)

// OrderDTO is the public shape of an order with its lines.
type OrderDTO struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	UserID         uuid.UUID           `json:"user_id"`
	Representative *RepresentativeDTO  `json:"representative,omitempty"`
	Status         enums.OrderStatus   `json:"status"`
	PaymentStatus  enums.PaymentStatus `json:"payment_status"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	Description    *string             `json:"description,omitempty"`
	Items          []OrderItemDTO      `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// RepresentativeDTO is the order-embedded representative summary.
type RepresentativeDTO struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	City        string    `json:"city"`
}

// OrderItemDTO is one order line with its product summary.
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// NewOrderDTO maps the model onto its public shape.
func NewOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalAmount:   order.TotalAmount,
		Description:   order.Description,
		Items:         make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if order.User != nil {
		dto.Representative = &RepresentativeDTO{
			ID:          order.User.ID,
			FirstName:   order.User.FirstName,
			LastName:    order.User.LastName,
			PhoneNumber: order.User.PhoneNumber,
			City:        order.User.City,
		}
	}
	for _, item := range order.Items {
		line := OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			line.Title = item.Product.Title
		}
		dto.Items = append(dto.Items, line)
	}
	return dto
}

// NewOrderDTOs maps a slice of orders.
func NewOrderDTOs(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *NewOrderDTO(&orders[i]))
	}
	return out
}
