package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-min-32-chars-long-1234567890"

// TestGenerateTokenPair tests JWT token pair generation.
func TestGenerateTokenPair(t *testing.T) {
	sub := Subject{UserID: 123, Role: "user", Username: "alice"}

	tokenPair, err := GenerateTokenPair(sub, testSecret, 15*time.Minute, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token pair: %v", err)
	}

	if tokenPair.AccessToken == "" {
		t.Error("Access token is empty")
	}
	if tokenPair.RefreshToken == "" {
		t.Error("Refresh token is empty")
	}
	if tokenPair.ExpiresAt.IsZero() {
		t.Error("ExpiresAt is not set")
	}

	claims, err := ValidateJWT(tokenPair.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("Failed to validate generated access token: %v", err)
	}

	if claims.Subject != "123" {
		t.Errorf("Expected subject '123', got '%s'", claims.Subject)
	}
	if id, err := claims.UserID(); err != nil || id != 123 {
		t.Errorf("Expected user id 123, got %d (%v)", id, err)
	}
	if claims.Role != "user" {
		t.Errorf("Expected role 'user', got '%s'", claims.Role)
	}
	if claims.Username != "alice" {
		t.Errorf("Expected username 'alice', got '%s'", claims.Username)
	}
	if claims.Issuer != Issuer {
		t.Errorf("Expected issuer '%s', got '%s'", Issuer, claims.Issuer)
	}
}

// TestGenerateTokenPairWeakSecret tests that weak secrets are rejected.
func TestGenerateTokenPairWeakSecret(t *testing.T) {
	_, err := GenerateTokenPair(Subject{UserID: 123, Role: "user"}, "short", 15*time.Minute, time.Hour)
	if err == nil {
		t.Fatal("Expected error for weak secret, but got none")
	}
	if err.Error() != "JWT key too weak" {
		t.Errorf("Expected 'JWT key too weak' error, got '%s'", err.Error())
	}
}

// TestValidateJWT tests JWT token validation.
func TestValidateJWT(t *testing.T) {
	tokenPair, err := GenerateTokenPair(Subject{UserID: 456, Role: "admin"}, testSecret, 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token pair for validation test: %v", err)
	}

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "456",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "admin",
	})
	foreignToken, err := foreign.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign foreign token: %v", err)
	}

	tests := []struct {
		name        string
		token       string
		secret      string
		expectError bool
	}{
		{name: "Valid token", token: tokenPair.AccessToken, secret: testSecret},
		{name: "Invalid secret", token: tokenPair.AccessToken, secret: "wrong-secret-key-min-32-chars-long-12345", expectError: true},
		{name: "Empty token", token: "", secret: testSecret, expectError: true},
		{name: "Malformed token", token: "invalid.token.here", secret: testSecret, expectError: true},
		{name: "Foreign issuer", token: foreignToken, secret: testSecret, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateJWT(tt.token, tt.secret)

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if claims == nil {
				t.Error("Expected claims but got nil")
			}
		})
	}
}

// TestExpiredToken tests that expired tokens are rejected.
func TestExpiredToken(t *testing.T) {
	tokenPair, err := GenerateTokenPair(Subject{UserID: 789, Role: "user"}, testSecret, -1*time.Second, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate expired token: %v", err)
	}

	if _, err := ValidateJWT(tokenPair.AccessToken, testSecret); err == nil {
		t.Error("Expected error for expired token, but validation succeeded")
	}
}

// TestTokenClaimsContent tests that token claims contain correct data.
func TestTokenClaimsContent(t *testing.T) {
	tests := []struct {
		name string
		sub  Subject
	}{
		{name: "Regular user", sub: Subject{UserID: 100, Role: "user", Username: "bob"}},
		{name: "Admin user", sub: Subject{UserID: 200, Role: "admin", Username: "admin"}},
		{name: "Moderator user", sub: Subject{UserID: 300, Role: "moderator", Username: "mod_1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenPair, err := GenerateTokenPair(tt.sub, testSecret, 15*time.Minute, time.Hour)
			if err != nil {
				t.Fatalf("Failed to generate token: %v", err)
			}

			claims, err := ValidateJWT(tokenPair.AccessToken, testSecret)
			if err != nil {
				t.Fatalf("Failed to validate token: %v", err)
			}

			if claims.Role != tt.sub.Role {
				t.Errorf("Role mismatch: expected '%s', got '%s'", tt.sub.Role, claims.Role)
			}
			if claims.Username != tt.sub.Username {
				t.Errorf("Username mismatch: expected '%s', got '%s'", tt.sub.Username, claims.Username)
			}
			if claims.ExpiresAt == nil || claims.IssuedAt == nil || claims.NotBefore == nil {
				t.Error("Time claims must be set")
			}
		})
	}
}

// TestRefreshTokenUniqueness tests that refresh tokens are unique.
func TestRefreshTokenUniqueness(t *testing.T) {
	tokens := make(map[string]bool)

	for i := 0; i < 100; i++ {
		tokenPair, err := GenerateTokenPair(Subject{UserID: 999, Role: "user"}, testSecret, 15*time.Minute, time.Hour)
		if err != nil {
			t.Fatalf("Failed to generate token pair: %v", err)
		}

		if tokens[tokenPair.RefreshToken] {
			t.Errorf("Duplicate refresh token generated: %s", tokenPair.RefreshToken)
		}
		tokens[tokenPair.RefreshToken] = true

		// 32 bytes in hex
		if len(tokenPair.RefreshToken) != 64 {
			t.Errorf("Expected refresh token length 64, got %d", len(tokenPair.RefreshToken))
		}
	}
}
