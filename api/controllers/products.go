package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ahmadmoradi/pakhshyar-backend/api/middleware"
	"github.com/ahmadmoradi/pakhshyar-backend/api/responses"
	"github.com/ahmadmoradi/pakhshyar-backend/api/validators"
	productsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/products"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/logger"
)

type createProductRequest struct {
	Title         string           `json:"title" validate:"required"`
	Description   *string          `json:"description,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Price         decimal.Decimal  `json:"price" validate:"required"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	Stock         int              `json:"stock" validate:"min=0"`
	Image         *string          `json:"image,omitempty"`
}

type updateProductRequest struct {
	Title         *string          `json:"title,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	Stock         *int             `json:"stock,omitempty"`
	Image         *string          `json:"image,omitempty"`
}

// ProductList returns the catalog. The purchase price only shows up for
// admin callers.
func ProductList(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := productsvc.ListProductsQuery{Pagination: page}
		if raw := r.URL.Query().Get("category"); raw != "" {
			query.Category = &raw
		}

		products, total, err := svc.ListProducts(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isAdmin := middleware.RoleFromContext(r.Context()) == enums.RoleAdmin.String()
		responses.WriteSuccess(w, map[string]any{
			"products": productsvc.NewProductDTOs(products, isAdmin),
			"total":    total,
		})
	}
}

// AdminProductGet returns one catalog entry with cost data.
func AdminProductGet(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productsvc.NewProductDTO(product, true))
	}
}

// AdminProductCreate adds a catalog entry.
func AdminProductCreate(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), productsvc.CreateProductInput{
			Title:         body.Title,
			Description:   body.Description,
			Category:      body.Category,
			Price:         body.Price,
			PurchasePrice: body.PurchasePrice,
			Stock:         body.Stock,
			Image:         body.Image,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, productsvc.NewProductDTO(product, true))
	}
}

// AdminProductUpdate patches a catalog entry.
func AdminProductUpdate(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productsvc.UpdateProductInput{
			ID:            productID,
			Title:         body.Title,
			Description:   body.Description,
			Category:      body.Category,
			Price:         body.Price,
			PurchasePrice: body.PurchasePrice,
			Stock:         body.Stock,
			Image:         body.Image,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productsvc.NewProductDTO(product, true))
	}
}

// AdminProductDelete removes a catalog entry.
func AdminProductDelete(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
