package auth

import (
	"context"

	"github.com/minutes/minutes/internal/model"
)

type authContextKey struct{}

// ContextWithAuth attaches the authenticated caller to ctx.
func ContextWithAuth(ctx context.Context, ac *model.AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, ac)
}

// AuthFromContext returns the authenticated caller, or nil for anonymous requests.
func AuthFromContext(ctx context.Context) *model.AuthContext {
	ac, _ := ctx.Value(authContextKey{}).(*model.AuthContext)
	return ac
}

// UserIDFromContext returns the authenticated user's ID, or "" when anonymous.
func UserIDFromContext(ctx context.Context) string {
	if ac := AuthFromContext(ctx); ac != nil {
		return ac.UserID
	}
	return ""
}
