package dashboard

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
)

const (
	activityWindow = 30 * 24 * time.Hour

	// One recent order is worth 20 points, capped at 100.
	activityOrdersForFullScore = 5

	recentOrderLimit = 5
)

// Service produces the admin dashboard aggregates.
type Service struct {
	repo Repository
	now  func() time.Time
}

// ServiceParams groups dependencies for the dashboard service.
type ServiceParams struct {
	Repo Repository
	Now  func() time.Time
}

// NewService builds a dashboard service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{repo: params.Repo, now: now}, nil
}

// StatEntry is a total with its month-over-month change.
type StatEntry struct {
	Total         int64   `json:"total"`
	ChangePercent float64 `json:"change_percent"`
}

// Stats is the dashboard headline block.
type Stats struct {
	Representatives       StatEntry `json:"representatives"`
	Products              StatEntry `json:"products"`
	Orders                StatEntry `json:"orders"`
	ActiveRepresentatives int64     `json:"active_representatives"`
	PendingOrders         int64     `json:"pending_orders"`
}

// Stats returns the headline totals with month-over-month growth, computed
// against the counts as of the start of the current month.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	reps, err := s.repo.CountRepresentatives(ctx, nil, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting representatives")
	}
	repsBefore, err := s.repo.CountRepresentatives(ctx, &monthStart, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting representatives")
	}

	products, err := s.repo.CountProducts(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting products")
	}
	productsBefore, err := s.repo.CountProducts(ctx, &monthStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting products")
	}

	orders, err := s.repo.CountOrders(ctx, nil, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
	}
	ordersBefore, err := s.repo.CountOrders(ctx, &monthStart, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
	}

	active, err := s.repo.CountRepresentatives(ctx, nil, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting active representatives")
	}
	pendingStatus := enums.OrderStatusPending
	pending, err := s.repo.CountOrders(ctx, nil, &pendingStatus)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting pending orders")
	}

	return &Stats{
		Representatives:       StatEntry{Total: reps, ChangePercent: changePercent(reps, repsBefore)},
		Products:              StatEntry{Total: products, ChangePercent: changePercent(products, productsBefore)},
		Orders:                StatEntry{Total: orders, ChangePercent: changePercent(orders, ordersBefore)},
		ActiveRepresentatives: active,
		PendingOrders:         pending,
	}, nil
}

func changePercent(current, previous int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	change := float64(current-previous) / float64(previous) * 100
	return math.Round(change*10) / 10
}

// ActiveRepresentative is one roster entry with its activity score.
type ActiveRepresentative struct {
	ID            uuid.UUID `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	City          string    `json:"city"`
	PhoneNumber   string    `json:"phone_number"`
	OrderCount    int64     `json:"order_count"`
	ActivityScore int       `json:"activity_score"`
}

// ActiveRepresentatives lists active representatives ranked by a 30-day
// activity score derived from recent non-cancelled order volume.
func (s *Service) ActiveRepresentatives(ctx context.Context) ([]ActiveRepresentative, error) {
	users, err := s.repo.ListActiveRepresentatives(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing representatives")
	}
	totals, err := s.repo.OrderCountsByUser(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
	}
	since := s.now().UTC().Add(-activityWindow)
	recent, err := s.repo.RecentOrderCountsByUser(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting recent orders")
	}

	out := make([]ActiveRepresentative, 0, len(users))
	for _, user := range users {
		out = append(out, ActiveRepresentative{
			ID:            user.ID,
			FirstName:     user.FirstName,
			LastName:      user.LastName,
			City:          user.City,
			PhoneNumber:   user.PhoneNumber,
			OrderCount:    totals[user.ID],
			ActivityScore: activityScore(recent[user.ID]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ActivityScore > out[j].ActivityScore
	})
	return out, nil
}

func activityScore(recentOrders int64) int {
	score := math.Round(float64(recentOrders) / activityOrdersForFullScore * 100)
	if score > 100 {
		return 100
	}
	return int(score)
}

// RecentOrder is one row of the latest-orders widget.
type RecentOrder struct {
	ID                 uuid.UUID           `json:"id"`
	OrderNumber        string              `json:"order_number"`
	RepresentativeName string              `json:"representative_name"`
	Status             enums.OrderStatus   `json:"status"`
	PaymentStatus      enums.PaymentStatus `json:"payment_status"`
	TotalAmount        decimal.Decimal     `json:"total_amount"`
	CreatedAt          time.Time           `json:"created_at"`
}

// RecentOrders returns the latest orders with representative names.
func (s *Service) RecentOrders(ctx context.Context) ([]RecentOrder, error) {
	orders, err := s.repo.RecentOrders(ctx, recentOrderLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing recent orders")
	}

	out := make([]RecentOrder, 0, len(orders))
	for _, order := range orders {
		row := RecentOrder{
			ID:            order.ID,
			OrderNumber:   order.OrderNumber,
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
			TotalAmount:   order.TotalAmount,
			CreatedAt:     order.CreatedAt,
		}
		if order.User != nil {
			row.RepresentativeName = order.User.FirstName + " " + order.User.LastName
		}
		out = append(out, row)
	}
	return out, nil
}
