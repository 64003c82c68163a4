package auth

import (
	"context"
	"testing"

	"github.com/minutes/minutes/internal/model"
)

func TestAuthContextRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if AuthFromContext(ctx) != nil {
		t.Fatal("expected nil auth on empty context")
	}
	if UserIDFromContext(ctx) != "" {
		t.Fatal("expected empty user id on empty context")
	}

	ctx = ContextWithAuth(ctx, &model.AuthContext{UserID: "u1", Email: "a@b.co"})
	if got := UserIDFromContext(ctx); got != "u1" {
		t.Errorf("UserIDFromContext() = %q, want u1", got)
	}
	if got := AuthFromContext(ctx).Email; got != "a@b.co" {
		t.Errorf("Email = %q", got)
	}
}
