package dto

import (
	"strings"
	"time"

	"centrebooks/internal/domain/auth"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=128"`
}

// ToCredentials trims the username; the password is taken verbatim.
func (r *LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{Username: strings.TrimSpace(r.Username), Password: r.Password}
}

// RefreshTokenRequest is the body of POST /auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries a freshly issued token pair. ExpiresAt is the
// access token expiry.
type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	TokenType    string    `json:"tokenType"`
}

func FromTokenPair(tp *auth.TokenPair) *TokenResponse {
	return &TokenResponse{
		AccessToken:  tp.AccessToken,
		RefreshToken: tp.RefreshToken,
		ExpiresAt:    tp.ExpiresAt,
		TokenType:    tp.TokenType,
	}
}

// UserResponse describes an account. CentreID is omitted for administrators.
type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	CentreID    string     `json:"centreId,omitempty"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func FromUser(u *auth.User) *UserResponse {
	out := &UserResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
	}
	if u.CentreID != nil {
		out.CentreID = u.CentreID.String()
	}
	return out
}

// LoginResponse is the body returned by POST /auth/login.
type LoginResponse struct {
	Tokens *TokenResponse `json:"tokens"`
	User   *UserResponse  `json:"user"`
}

func NewLoginResponse(tp *auth.TokenPair, u *auth.User) LoginResponse {
	return LoginResponse{Tokens: FromTokenPair(tp), User: FromUser(u)}
}
