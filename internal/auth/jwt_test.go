package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/minutes/minutes/internal/model"
)

func newTestIssuer(now time.Time) *TokenIssuer {
	issuer := NewTokenIssuer("test-secret", 300*time.Minute)
	issuer.now = func() time.Time { return now }
	return issuer
}

func TestTokenIssuer_IssueVerify(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(now)
	user := &model.User{ID: "01HX0000000000000000000000", Email: "ada@example.com"}

	token, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if claims.Subject != "ada@example.com" {
		t.Errorf("sub = %q, want ada@example.com", claims.Subject)
	}
	if claims.UserID != user.ID {
		t.Errorf("uid = %q, want %q", claims.UserID, user.ID)
	}
	if got := claims.ExpiresAt.Time.Sub(now); got != 300*time.Minute {
		t.Errorf("exp - iat = %s, want 300m", got)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	t.Parallel()

	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	token, err := newTestIssuer(issued).Issue(&model.User{ID: "u1", Email: "a@b.co"})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	later := newTestIssuer(issued.Add(301 * time.Minute))
	if _, err := later.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Now()
	token, err := newTestIssuer(now).Issue(&model.User{ID: "u1", Email: "a@b.co"})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	other := NewTokenIssuer("another-secret", time.Hour)
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "a@b.co",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	if _, err := NewTokenIssuer("test-secret", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_Garbage(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Hour)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := issuer.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestTokenFingerprint(t *testing.T) {
	t.Parallel()

	a := TokenFingerprint("token-a")
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64", len(a))
	}
	if a != TokenFingerprint("token-a") {
		t.Error("fingerprint should be deterministic")
	}
	if a == TokenFingerprint("token-b") {
		t.Error("different tokens should have different fingerprints")
	}
}
