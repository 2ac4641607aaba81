package jwt

import (
	"errors"
	"testing"
)

const (
	testSecret        = "test-secret"
	testRefreshSecret = "test-refresh-secret"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "Asha", "asha@example.com", "pharmacy", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "asha@example.com" {
		t.Errorf("Email = %q, want asha@example.com", claims.Email)
	}
	if claims.Role != "pharmacy" {
		t.Errorf("Role = %q, want pharmacy", claims.Role)
	}
	if claims.Issuer != "pharmasave" {
		t.Errorf("Issuer = %q, want pharmasave", claims.Issuer)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "A", "a@example.com", "user", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(1, "A", "a@example.com", "user", testSecret, -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("error = %v, want ErrTokenExpired", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(7, "token-id-1", testRefreshSecret, 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	claims, err := ValidateRefreshToken(token, testRefreshSecret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken() error = %v", err)
	}

	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if claims.TokenID != "token-id-1" {
		t.Errorf("TokenID = %q, want token-id-1", claims.TokenID)
	}
}

func TestRefreshTokenExpired(t *testing.T) {
	token, err := GenerateRefreshToken(7, "token-id-2", testRefreshSecret, -1)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	if _, err := ValidateRefreshToken(token, testRefreshSecret); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("error = %v, want ErrTokenExpired", err)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	refresh, err := GenerateRefreshToken(7, "token-id-3", testRefreshSecret, 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	if _, err := ValidateAccessToken(refresh, testSecret); err == nil {
		t.Error("refresh token validated as access token")
	}
}
