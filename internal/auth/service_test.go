package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/ahmadmoradi/pakhshyar-backend/pkg/auth"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/config"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/security"
)

var testJWTCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "pakhshyar",
	ExpirationMinutes: 30,
}

func TestLoginIssuesSessionBackedToken(t *testing.T) {
	password := "0012345678"
	user := testUser(t, password, true)
	sessions := &stubSessions{}
	svc := newTestAuthService(t, user, sessions)

	result, err := svc.Login(context.Background(), LoginInput{
		NationalID: user.NationalID,
		Password:   password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTCfg, result.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != enums.RoleRepresentative {
		t.Fatalf("expected representative role claim, got %s", claims.Role)
	}
	if sessions.registered != claims.ID {
		t.Fatalf("expected session registered under jti %s, got %s", claims.ID, sessions.registered)
	}
	if !result.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %s", result.ExpiresAt)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	password := "correct-password"
	user := testUser(t, password, true)

	cases := []struct {
		name       string
		repo       Repository
		nationalID string
		password   string
	}{
		{"unknown national id", stubAuthRepo{err: gorm.ErrRecordNotFound}, "9999999999", password},
		{"wrong password", stubAuthRepo{user: user}, user.NationalID, "wrong"},
		{"inactive account", stubAuthRepo{user: testUser(t, password, false)}, user.NationalID, password},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := NewService(ServiceParams{
				Repo:     tc.repo,
				Sessions: &stubSessions{},
				JWTCfg:   testJWTCfg,
			})
			if err != nil {
				t.Fatalf("build service: %v", err)
			}

			_, err = svc.Login(context.Background(), LoginInput{
				NationalID: tc.nationalID,
				Password:   tc.password,
			})
			if err == nil {
				t.Fatalf("expected login to fail")
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
			// same message for every failure mode, nothing to enumerate accounts with
			if typed.Message() != "invalid credentials" {
				t.Fatalf("expected generic message, got %q", typed.Message())
			}
		})
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	svc := newTestAuthService(t, testUser(t, "secret", true), &stubSessions{})

	_, err := svc.Login(context.Background(), LoginInput{NationalID: "0012345678"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestAuthService(t, testUser(t, "secret", true), sessions)

	if err := svc.Logout(context.Background(), "access-123"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.revoked != "access-123" {
		t.Fatalf("expected session revoked, got %q", sessions.revoked)
	}

	err := svc.Logout(context.Background(), "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for empty access id, got %v", err)
	}
}

func newTestAuthService(t *testing.T, user *models.User, sessions SessionRegistry) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     stubAuthRepo{user: user},
		Sessions: sessions,
		JWTCfg:   testJWTCfg,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func testUser(t *testing.T, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Role:         enums.RoleRepresentative,
		FirstName:    "Sara",
		LastName:     "Ahmadi",
		NationalID:   "0012345678",
		PhoneNumber:  "09120000000",
		City:         "Tehran",
		IsActive:     active,
		PasswordHash: hash,
	}
}

type stubAuthRepo struct {
	user *models.User
	err  error
}

func (s stubAuthRepo) FindByNationalID(ctx context.Context, nationalID string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type stubSessions struct {
	registered string
	revoked    string
	err        error
}

func (s *stubSessions) Register(ctx context.Context, accessID, userID string) error {
	if s.err != nil {
		return s.err
	}
	s.registered = accessID
	return nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	if s.err != nil {
		return s.err
	}
	s.revoked = accessID
	return nil
}
