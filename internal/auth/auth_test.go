package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret []byte, subject string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return signed
}

func TestVerifierParseValidToken(t *testing.T) {
	secret := []byte("test-secret")
	v := NewVerifier(secret)
	tok := signToken(t, secret, "account-123", time.Now().Add(time.Hour))

	claims, err := v.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "account-123" {
		t.Errorf("exp subject account-123, got %s", claims.Subject)
	}
}

func TestVerifierParseExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	v := NewVerifier(secret)
	tok := signToken(t, secret, "account-123", time.Now().Add(-time.Hour))

	if _, err := v.Parse(tok); err == nil {
		t.Error("exp error for expired token, got nil")
	}
}

func TestVerifierParseWrongSecret(t *testing.T) {
	v := NewVerifier([]byte("right-secret"))
	tok := signToken(t, []byte("wrong-secret"), "account-123", time.Now().Add(time.Hour))

	if _, err := v.Parse(tok); err == nil {
		t.Error("exp error for mismatched signature, got nil")
	}
}
