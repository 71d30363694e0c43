package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/ahmadmoradi/pakhshyar-backend/api/middleware"
	"github.com/ahmadmoradi/pakhshyar-backend/internal/orders"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
)

// actorFromContext resolves the authenticated principal seeded by the auth
// middleware.
func actorFromContext(ctx context.Context) (orders.Actor, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return orders.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return orders.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	role, err := enums.ParseRole(middleware.RoleFromContext(ctx))
	if err != nil {
		return orders.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role")
	}
	return orders.Actor{UserID: userID, Role: role}, nil
}
