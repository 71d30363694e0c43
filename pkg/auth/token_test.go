package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/config"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
)

var testCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "pakhshyar",
	ExpirationMinutes: 30,
}

func TestMintAndParseAccessToken(t *testing.T) {
	userID := uuid.New()
	token, err := MintAccessToken(testCfg, time.Now(), AccessTokenPayload{
		UserID: userID,
		Role:   enums.RoleAdmin,
		JTI:    "session-1",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	claims, err := ParseAccessToken(testCfg, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role, got %s", claims.Role)
	}
	if claims.ID != "session-1" {
		t.Fatalf("expected jti session-1, got %q", claims.ID)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	token, err := MintAccessToken(testCfg, issued, AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleRepresentative,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	if _, err := ParseAccessToken(testCfg, token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := MintAccessToken(testCfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleRepresentative,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	other := testCfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatalf("expected signature mismatch to be rejected")
	}
}

func TestMintRejectsInvalidRole(t *testing.T) {
	_, err := MintAccessToken(testCfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.Role("SUPERVISOR"),
	})
	if err == nil {
		t.Fatalf("expected invalid role to be rejected")
	}
}

func TestMintGeneratesJTIWhenMissing(t *testing.T) {
	token, err := MintAccessToken(testCfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleRepresentative,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	claims, err := ParseAccessToken(testCfg, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.ID == "" {
		t.Fatalf("expected generated jti")
	}
}
