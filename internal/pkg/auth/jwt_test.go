// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"
)

func newTestManager() *JWTManager {
	return NewJWTManager("test-secret-key", 15*time.Minute, 24*time.Hour)
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	manager := newTestManager()

	access, refresh, err := manager.GenerateTokenPair(42, "worker@example.com", "worker")
	if err != nil {
		t.Fatalf("failed to generate token pair: %v", err)
	}

	claims, err := manager.ValidateToken(access)
	if err != nil {
		t.Fatalf("failed to validate access token: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "worker@example.com" || claims.Role != "worker" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.TokenType != "access" {
		t.Errorf("expected access token type, got %q", claims.TokenType)
	}

	refreshClaims, err := manager.ValidateToken(refresh)
	if err != nil {
		t.Fatalf("failed to validate refresh token: %v", err)
	}
	if refreshClaims.TokenType != "refresh" {
		t.Errorf("expected refresh token type, got %q", refreshClaims.TokenType)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	access, _, err := newTestManager().GenerateTokenPair(1, "a@example.com", "admin")
	if err != nil {
		t.Fatalf("failed to generate tokens: %v", err)
	}

	other := NewJWTManager("different-secret", 15*time.Minute, 24*time.Hour)
	if _, err := other.ValidateToken(access); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	manager := NewJWTManager("test-secret-key", -time.Minute, 24*time.Hour)
	access, _, err := manager.GenerateTokenPair(1, "a@example.com", "admin")
	if err != nil {
		t.Fatalf("failed to generate tokens: %v", err)
	}

	if _, err := manager.ValidateToken(access); err == nil {
		t.Fatal("expected validation to fail for an expired token")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := newTestManager().ValidateToken("not.a.jwt"); err == nil {
		t.Fatal("expected validation to fail for malformed input")
	}
}

func TestRefreshAccessToken(t *testing.T) {
	manager := newTestManager()
	access, refresh, err := manager.GenerateTokenPair(42, "worker@example.com", "worker")
	if err != nil {
		t.Fatalf("failed to generate tokens: %v", err)
	}

	newAccess, err := manager.RefreshAccessToken(refresh)
	if err != nil {
		t.Fatalf("failed to refresh: %v", err)
	}

	claims, err := manager.ValidateToken(newAccess)
	if err != nil {
		t.Fatalf("failed to validate refreshed token: %v", err)
	}
	if claims.TokenType != "access" || claims.UserID != 42 {
		t.Errorf("unexpected refreshed claims: %+v", claims)
	}

	// An access token must not be accepted as a refresh token
	if _, err := manager.RefreshAccessToken(access); err == nil {
		t.Fatal("expected refresh with an access token to fail")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi", false},
		{"empty", "", "", true},
		{"missing token", "Bearer", "", true},
		{"wrong scheme", "Basic abc", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractTokenFromHeader(tc.header)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
