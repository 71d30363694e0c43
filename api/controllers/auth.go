package controllers

import (
	"net/http"

	"github.com/ahmadmoradi/pakhshyar-backend/api/middleware"
	"github.com/ahmadmoradi/pakhshyar-backend/api/responses"
	"github.com/ahmadmoradi/pakhshyar-backend/api/validators"
	authsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/auth"
	"github.com/ahmadmoradi/pakhshyar-backend/internal/representatives"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/logger"
)

type loginRequest struct {
	NationalID string `json:"national_id" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// AuthLogin wires the credentials login endpoint into the HTTP layer.
func AuthLogin(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), authsvc.LoginInput{
			NationalID: body.NationalID,
			Password:   body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"token":      result.Token,
			"expires_at": result.ExpiresAt,
			"user":       representatives.NewUserDTO(result.User),
		})
	}
}

// AuthLogout revokes the live session behind the presented token.
func AuthLogout(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		accessID := middleware.AccessIDFromContext(r.Context())
		if err := svc.Logout(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
