package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service orchestrates the order lifecycle.
type Service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	Repo Repository
	Tx   txRunner
	Now  func() time.Time
}

// NewService builds an order service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Tx == nil {
		return nil, errors.New("tx runner is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{repo: params.Repo, tx: params.Tx, now: now}, nil
}

// ItemInput is one requested product line.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput carries everything needed to open a new order.
type CreateOrderInput struct {
	UserID      uuid.UUID
	Items       []ItemInput
	Description *string
}

// CreateOrder opens an order in a single transaction: duplicate product
// lines are merged, catalog prices are snapshotted onto the items and the
// order number is allocated from the monthly counter.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	merged, err := mergeItems(input.Items)
	if err != nil {
		return nil, err
	}

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// the representative path gets this from auth; the admin path
		// passes an arbitrary id and must not open orders for ghosts
		if _, err := repo.FindRepresentative(ctx, input.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "representative not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading representative")
		}

		products, err := s.loadProducts(ctx, repo, merged)
		if err != nil {
			return err
		}

		number, err := s.allocateOrderNumber(ctx, repo)
		if err != nil {
			return err
		}

		order := &models.Order{
			ID:            uuid.New(),
			OrderNumber:   number,
			UserID:        input.UserID,
			Status:        enums.OrderStatusPending,
			PaymentStatus: enums.PaymentStatusUnpaid,
			Description:   input.Description,
		}

		total := decimal.Zero
		for _, item := range merged {
			product := products[item.ProductID]
			order.Items = append(order.Items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Price:     product.Price,
				Quantity:  item.Quantity,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		order.TotalAmount = total

		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// allocateOrderNumber produces the next YYYY-MM-#### number for the current
// month. The sequence resets each month because the counter is keyed by month.
func (s *Service) allocateOrderNumber(ctx context.Context, repo Repository) (string, error) {
	monthKey := s.now().Format("2006-01")
	seq, err := repo.AllocateSequence(ctx, monthKey)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocating order number")
	}
	return fmt.Sprintf("%s-%04d", monthKey, seq), nil
}

func (s *Service) loadProducts(ctx context.Context, repo Repository, items []ItemInput) (map[uuid.UUID]models.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading products")
	}

	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, item := range items {
		if _, ok := byID[item.ProductID]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]string{"product_id": item.ProductID.String()})
		}
	}
	return byID, nil
}

// mergeItems collapses duplicate product lines by summing quantities,
// preserving the position of the first occurrence.
func mergeItems(items []ItemInput) ([]ItemInput, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}

	index := map[uuid.UUID]int{}
	merged := make([]ItemInput, 0, len(items))
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}

// Actor identifies who is performing an order operation. Representatives are
// restricted to their own pending orders; admins are unrestricted.
type Actor struct {
	UserID uuid.UUID
	Role   enums.Role
}

func (a Actor) isAdmin() bool {
	return a.Role == enums.RoleAdmin
}

// findForActor loads the order visible to the actor. Orders belonging to a
// different representative surface as not found.
func (s *Service) findForActor(ctx context.Context, repo Repository, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	var (
		order *models.Order
		err   error
	)
	if actor.isAdmin() {
		order, err = repo.FindOrder(ctx, orderID)
	} else {
		order, err = repo.FindOrderForUser(ctx, orderID, actor.UserID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func requirePendingForRep(actor Actor, order *models.Order) error {
	if actor.isAdmin() {
		return nil
	}
	if order.Status != enums.OrderStatusPending {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be modified")
	}
	return nil
}

// GetOrder returns the order detail visible to the actor.
func (s *Service) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return s.findForActor(ctx, s.repo, actor, orderID)
}

// ListOrders returns orders visible to the actor, newest first.
func (s *Service) ListOrders(ctx context.Context, actor Actor, params ListOrdersQuery) ([]models.Order, int64, error) {
	if !actor.isAdmin() {
		params.UserID = &actor.UserID
	}
	orders, err := s.repo.ListOrders(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	total, err := s.repo.CountOrders(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
	}
	return orders, total, nil
}

// Summary aggregates a representative's orders by status.
type Summary struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
}

// OrderSummary returns the status counts for a representative's orders.
func (s *Service) OrderSummary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	counts, err := s.repo.StatusCounts(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating orders")
	}

	summary := &Summary{
		Pending:    counts[enums.OrderStatusPending],
		Processing: counts[enums.OrderStatusProcessing],
		Completed:  counts[enums.OrderStatusCompleted],
		Cancelled:  counts[enums.OrderStatusCancelled],
	}
	for _, count := range counts {
		summary.Total += count
	}
	return summary, nil
}

// ReplaceItemsInput fully replaces an order's line items. Optional fields
// update the order itself in the same transaction.
type ReplaceItemsInput struct {
	OrderID       uuid.UUID
	Actor         Actor
	Items         []ItemInput
	Description   *string
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
}

// ReplaceItems swaps the order's items for the given set, re-snapshotting
// catalog prices and recomputing the total.
func (s *Service) ReplaceItems(ctx context.Context, input ReplaceItemsInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	merged, err := mergeItems(input.Items)
	if err != nil {
		return nil, err
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if input.PaymentStatus != nil && !input.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.findForActor(ctx, repo, input.Actor, input.OrderID)
		if err != nil {
			return err
		}
		if err := requirePendingForRep(input.Actor, order); err != nil {
			return err
		}

		products, err := s.loadProducts(ctx, repo, merged)
		if err != nil {
			return err
		}

		if err := repo.DeleteItems(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing order items")
		}

		total := decimal.Zero
		for _, item := range merged {
			product := products[item.ProductID]
			line := &models.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Price:     product.Price,
				Quantity:  item.Quantity,
			}
			if err := repo.CreateItem(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order item")
			}
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		fields := map[string]any{"total_amount": total}
		if input.Description != nil {
			fields["description"] = *input.Description
		}
		if input.Status != nil {
			fields["status"] = *input.Status
		}
		if input.PaymentStatus != nil {
			fields["payment_status"] = *input.PaymentStatus
		}
		if err := repo.UpdateOrderFields(ctx, order.ID, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.findForActor(ctx, s.repo, input.Actor, input.OrderID)
}

// AddItemInput appends a line item without merging into existing lines.
// Price defaults to the current catalog price when not given.
type AddItemInput struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     *decimal.Decimal
}

// AddItem appends a line to the order and recomputes the total. Admin only;
// route-level role checks enforce that.
func (s *Service) AddItem(ctx context.Context, input AddItemInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	actor := Actor{Role: enums.RoleAdmin}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.findForActor(ctx, repo, actor, input.OrderID)
		if err != nil {
			return err
		}

		price := decimal.Zero
		if input.Price != nil {
			price = *input.Price
		} else {
			products, err := s.loadProducts(ctx, repo, []ItemInput{{ProductID: input.ProductID, Quantity: input.Quantity}})
			if err != nil {
				return err
			}
			price = products[input.ProductID].Price
		}

		line := &models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: input.ProductID,
			Price:     price,
			Quantity:  input.Quantity,
		}
		if err := repo.CreateItem(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order item")
		}
		return s.recomputeTotal(ctx, repo, order.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.findForActor(ctx, s.repo, actor, input.OrderID)
}

// RemoveItem deletes one line from the order and recomputes the total.
func (s *Service) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil || itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and item id required")
	}

	actor := Actor{Role: enums.RoleAdmin}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := s.findForActor(ctx, repo, actor, orderID); err != nil {
			return err
		}
		if _, err := repo.FindItem(ctx, orderID, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order item")
		}
		if err := repo.DeleteItem(ctx, orderID, itemID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting order item")
		}
		return s.recomputeTotal(ctx, repo, orderID)
	})
	if err != nil {
		return nil, err
	}
	return s.findForActor(ctx, s.repo, actor, orderID)
}

func (s *Service) recomputeTotal(ctx context.Context, repo Repository, orderID uuid.UUID) error {
	items, err := repo.ListItems(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing order items")
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return repo.UpdateOrderFields(ctx, orderID, map[string]any{"total_amount": total})
}

// UpdateStatusInput patches the status fields. At least one must be set.
type UpdateStatusInput struct {
	OrderID       uuid.UUID
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	Description   *string
}

// UpdateStatus patches order status and/or payment status.
func (s *Service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Status == nil && input.PaymentStatus == nil && input.Description == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if input.PaymentStatus != nil && !input.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	actor := Actor{Role: enums.RoleAdmin}
	if _, err := s.findForActor(ctx, s.repo, actor, input.OrderID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	if input.PaymentStatus != nil {
		fields["payment_status"] = *input.PaymentStatus
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if err := s.repo.UpdateOrderFields(ctx, input.OrderID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order")
	}
	return s.findForActor(ctx, s.repo, actor, input.OrderID)
}

// DeleteOrderInput identifies the order and the actor requesting deletion.
type DeleteOrderInput struct {
	OrderID uuid.UUID
	Actor   Actor
}

// DeleteOrder removes an order and its items. Orders with recorded payments
// cannot be deleted; delete the payments first.
func (s *Service) DeleteOrder(ctx context.Context, input DeleteOrderInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.findForActor(ctx, repo, input.Actor, input.OrderID)
		if err != nil {
			return err
		}
		if err := requirePendingForRep(input.Actor, order); err != nil {
			return err
		}

		payments, err := repo.CountPayments(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting payments")
		}
		if payments > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "order has recorded payments")
		}

		if err := repo.DeleteOrder(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting order")
		}
		return nil
	})
}
