package auth

import (
	"context"

	"centrebooks/internal/core/id"
)

// UserRepository persists accounts. Lookups of a missing account return
// NOT_FOUND; username comparisons ignore case.
type UserRepository interface {
	// Create fails with DUPLICATE_ENTRY when the username is taken.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// Update writes the login counters, lock, role and centre binding.
	Update(ctx context.Context, user *User) error
}

// TokenRepository persists refresh tokens by their SHA-256 hash.
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	// GetRefreshToken also returns revoked tokens so reuse can be detected.
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error
	// RevokeAllUserTokens is used on logout-everywhere and on token reuse.
	RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error
}
