package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
)

// Service manages the product catalog.
type Service struct {
	repo Repository
}

// ServiceParams groups dependencies for the product service.
type ServiceParams struct {
	Repo Repository
}

// NewService builds a product service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// CreateProductInput carries a new catalog entry.
type CreateProductInput struct {
	Title         string
	Description   *string
	Category      *string
	Price         decimal.Decimal
	PurchasePrice *decimal.Decimal
	Stock         int
	Image         *string
}

func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	product := &models.Product{
		ID:            uuid.New(),
		Title:         input.Title,
		Description:   input.Description,
		Category:      input.Category,
		Price:         input.Price,
		PurchasePrice: input.PurchasePrice,
		Stock:         input.Stock,
		Image:         input.Image,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, params ListProductsQuery) ([]models.Product, int64, error) {
	products, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting products")
	}
	return products, total, nil
}

// UpdateProductInput patches a catalog entry. Nil fields are left unchanged.
type UpdateProductInput struct {
	ID            uuid.UUID
	Title         *string
	Description   *string
	Category      *string
	Price         *decimal.Decimal
	PurchasePrice *decimal.Decimal
	Stock         *int
	Image         *string
}

func (s *Service) UpdateProduct(ctx context.Context, input UpdateProductInput) (*models.Product, error) {
	if input.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	fields := map[string]any{}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
		}
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Category != nil {
		fields["category"] = *input.Category
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		fields["price"] = *input.Price
	}
	if input.PurchasePrice != nil {
		fields["purchase_price"] = *input.PurchasePrice
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		fields["stock"] = *input.Stock
	}
	if input.Image != nil {
		fields["image"] = *input.Image
	}
	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}

	if _, err := s.GetProduct(ctx, input.ID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFields(ctx, input.ID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return s.GetProduct(ctx, input.ID)
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}
