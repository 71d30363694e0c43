package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/auth"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/auth/session"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/config"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/security"
)

// SessionRegistry is the slice of the session manager login needs.
// Satisfied by *session.Manager.
type SessionRegistry interface {
	Register(ctx context.Context, accessID, userID string) error
	Revoke(ctx context.Context, accessID string) error
}

var _ SessionRegistry = (*session.Manager)(nil)

// Service handles credentials login and logout.
type Service struct {
	repo     Repository
	sessions SessionRegistry
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	Repo     Repository
	Sessions SessionRegistry
	JWTCfg   config.JWTConfig
	Now      func() time.Time
}

// NewService builds an auth service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:     params.Repo,
		sessions: params.Sessions,
		jwtCfg:   params.JWTCfg,
		now:      now,
	}, nil
}

// LoginInput carries the submitted credentials.
type LoginInput struct {
	NationalID string
	Password   string
}

// LoginResult is the issued token plus the authenticated identity.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

var errBadCredentials = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")

// Login verifies the national id + password pair, requires an active
// account and issues a session-backed access token. Unknown ids, wrong
// passwords and deactivated accounts all return the same generic error.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if input.NationalID == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "national id and password required")
	}

	user, err := s.repo.FindByNationalID(ctx, input.NationalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBadCredentials
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok || !user.IsActive {
		return nil, errBadCredentials
	}

	accessID := session.NewAccessID()
	now := s.now().UTC()
	token, err := auth.MintAccessToken(s.jwtCfg, now, auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	if err := s.sessions.Register(ctx, accessID, user.ID.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "registering session")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.jwtCfg.AccessTokenTTL()),
		User:      user,
	}, nil
}

// Logout revokes the session behind the given token id.
func (s *Service) Logout(ctx context.Context, accessID string) error {
	if accessID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}
