// Package auth provides authentication and authorization domain logic.
package auth

import (
	"context"
	"strings"
	"time"

	"centrebooks/internal/core/apperror"
	appctx "centrebooks/internal/core/context"
	"centrebooks/internal/core/id"
)

// User is an account allowed to sign in. Centre accounts carry the centre
// they report for; admins carry none.
type User struct {
	ID                  id.ID      `db:"id" json:"id"`
	Username            string     `db:"username" json:"username"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	Role                string     `db:"role" json:"role"`
	CentreID            *id.ID     `db:"centre_id" json:"centreId,omitempty"`
	IsActive            bool       `db:"is_active" json:"isActive"`
	LastLoginAt         *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
}

// NewUser creates an active user.
func NewUser(username, passwordHash, role string, centreID *id.ID) *User {
	now := time.Now().UTC()
	return &User{
		ID:           id.New(),
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		Role:         role,
		CentreID:     centreID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	if strings.TrimSpace(u.Username) == "" {
		return apperror.NewFieldValidation("username", "username is required")
	}
	switch u.Role {
	case appctx.RoleAdmin:
	case appctx.RoleCentre:
		if u.CentreID == nil || id.IsNil(*u.CentreID) {
			return apperror.NewFieldValidation("centreId", "centre accounts need a centre")
		}
	default:
		return apperror.NewFieldValidation("role", "unknown role").WithDetail("value", u.Role)
	}
	return nil
}

// IsLocked returns true if account is locked.
func (u *User) IsLocked() bool {
	if u.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*u.LockedUntil)
}

// CanLogin checks if user can login.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	if u.IsLocked() {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments failed login counter.
func (u *User) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		u.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets failed login counter.
func (u *User) RecordSuccessfulLogin() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	now := time.Now().UTC()
	u.LastLoginAt = &now
}

// UserContext projects the account into the request-scoped identity.
// A centre account whose centre is gone keeps an empty CentreID.
func (u *User) UserContext() *appctx.UserContext {
	uc := &appctx.UserContext{
		UserID:   u.ID.String(),
		Username: u.Username,
		Role:     u.Role,
	}
	if u.CentreID != nil && !id.IsNil(*u.CentreID) {
		uc.CentreID = u.CentreID.String()
	}
	return uc
}

// RefreshToken represents a refresh token for JWT refresh.
type RefreshToken struct {
	ID            id.ID      `db:"id"`
	UserID        id.ID      `db:"user_id"`
	TokenHash     string     `db:"token_hash"`
	ExpiresAt     time.Time  `db:"expires_at"`
	CreatedAt     time.Time  `db:"created_at"`
	RevokedAt     *time.Time `db:"revoked_at"`
	RevokedReason *string    `db:"revoked_reason"`
}

// IsValid checks if refresh token is valid.
func (t *RefreshToken) IsValid() bool {
	if t.RevokedAt != nil {
		return false
	}
	return time.Now().Before(t.ExpiresAt)
}

// TokenPair contains access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	TokenType    string    `json:"tokenType"`
}

// Credentials for login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
