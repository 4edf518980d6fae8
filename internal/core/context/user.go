// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Roles a user account can hold.
const (
	RoleAdmin  = "ADMIN"
	RoleCentre = "CENTRE"
)

// UserContext contains the authenticated account as read from the token.
// It is resolved into a security.Principal before reaching domain code.
type UserContext struct {
	UserID   string
	Username string
	Role     string
	// CentreID is empty for admins and for centre accounts whose centre was deleted.
	CentreID string
}

// IsAdmin reports whether the account holds the admin role.
func (u *UserContext) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}
