package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	subject, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if subject != "user-123" {
		t.Errorf("expected subject user-123, got %s", subject)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = issuer.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = other.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenIssuer_Tampered(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Flip a character in the payload segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = issuer.Verify(tampered)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestTokenIssuer_RejectsNonHMAC(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Hour)

	// alg=none with an empty signature must never be accepted
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign unsigned token: %v", err)
	}

	_, err = issuer.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for alg=none token, got %v", err)
	}
}

func TestTokenIssuer_Garbage(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Hour)

	for _, token := range []string{"", "abc", "a.b.c"} {
		if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}
