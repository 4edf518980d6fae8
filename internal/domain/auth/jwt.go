package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appctx "centrebooks/internal/core/context"
	"centrebooks/internal/core/id"
)

// ErrInvalidToken wraps every access token rejection.
var ErrInvalidToken = errors.New("invalid access token")

// JWTConfig configures access token signing.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// DefaultJWTConfig returns a 15 minute HS256 configuration for secret.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:         secret,
		Issuer:         "centrebooks",
		AccessTokenTTL: 15 * time.Minute,
	}
}

// Claims carries the account and its centre binding.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"usr"`
	Role     string `json:"role"`
	CentreID string `json:"cid,omitempty"`
}

// JWTService signs and validates access tokens.
type JWTService struct {
	config JWTConfig
	parser *jwt.Parser
	now    func() time.Time
}

// NewJWTService creates a service for config.
func NewJWTService(config JWTConfig) *JWTService {
	s := &JWTService{config: config, now: time.Now}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s
}

// GenerateAccessToken signs an access token for uc and returns its expiry.
func (s *JWTService) GenerateAccessToken(uc *appctx.UserContext) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.New().String(),
			Issuer:    s.config.Issuer,
			Subject:   uc.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: uc.Username,
		Role:     uc.Role,
		CentreID: uc.CentreID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken verifies signature, issuer and expiry, then returns the
// account the token was issued to.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	var claims Claims
	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	switch claims.Role {
	case appctx.RoleAdmin, appctx.RoleCentre:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	return &appctx.UserContext{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
		CentreID: claims.CentreID,
	}, nil
}
