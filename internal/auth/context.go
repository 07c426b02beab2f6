// Package auth provides password hashing and bearer-token utilities.
package auth

import (
	"context"

	"github.com/focusdeck/focusdeck/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userContextKey is the context key for storing the authenticated user.
	userContextKey contextKey = "current_user"
)

// ContextWithUser adds the authenticated user to the context.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated user from the context.
// Returns nil if not present.
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// MustUserFromContext retrieves the authenticated user from the context.
// Panics if not present (use only when auth middleware has run).
func MustUserFromContext(ctx context.Context) *model.User {
	user := UserFromContext(ctx)
	if user == nil {
		panic("user not found in context - ensure auth middleware is applied")
	}
	return user
}

// UserIDFromContext is a convenience function to get the user ID from context.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	user := UserFromContext(ctx)
	if user == nil {
		return ""
	}
	return user.ID
}
