package controllers

import (
	"net/http"

	"github.com/ahmadmoradi/pakhshyar-backend/api/responses"
	dashboardsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/dashboard"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/logger"
)

// DashboardStats returns the headline totals and growth figures.
func DashboardStats(svc *dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// DashboardActiveRepresentatives ranks active reps by 30-day activity.
func DashboardActiveRepresentatives(svc *dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		reps, err := svc.ActiveRepresentatives(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reps)
	}
}

// DashboardRecentOrders returns the latest orders widget data.
func DashboardRecentOrders(svc *dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		orders, err := svc.RecentOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}
