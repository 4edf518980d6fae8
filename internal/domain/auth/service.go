package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/id"
	"centrebooks/internal/core/tx"
	"centrebooks/pkg/logger"
)

// Reasons recorded on revoked refresh tokens.
const (
	revokeReasonRotated = "refreshed"
	revokeReasonLogout  = "logout"
	revokeReasonReuse   = "reuse_detected"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts   int
	LockDuration       time.Duration
	PasswordMinLength  int
	RefreshTokenExpiry time.Duration
	BcryptCost         int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:   5,
		LockDuration:       15 * time.Minute,
		PasswordMinLength:  8,
		RefreshTokenExpiry: 7 * 24 * time.Hour, // 7 days
		BcryptCost:         bcrypt.DefaultCost,
	}
}

// Service signs accounts in and out. It never manages accounts beyond the
// bootstrap performed by EnsureUser.
type Service struct {
	userRepo   UserRepository
	tokenRepo  TokenRepository
	txManager  tx.Manager
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(
	userRepo UserRepository,
	tokenRepo TokenRepository,
	txManager tx.Manager,
	jwtService *JWTService,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		txManager:  txManager,
		jwtService: jwtService,
		config:     config,
	}
}

// Login authenticates user and returns tokens.
func (s *Service) Login(ctx context.Context, creds Credentials) (*TokenPair, *User, error) {
	username := strings.TrimSpace(creds.Username)
	if username == "" || creds.Password == "" {
		return nil, nil, apperror.NewValidation("username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if err := user.CanLogin(); err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		s.recordFailedLogin(ctx, user.ID)
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	var tokens *TokenPair
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		tokens, err = s.generateTokenPair(ctx, user)
		if err != nil {
			return err
		}
		user.RecordSuccessfulLogin()
		user.UpdatedAt = time.Now().UTC()
		return s.userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}

	logger.Info(ctx, "user logged in",
		"user_id", user.ID,
		"username", user.Username,
		"role", user.Role)

	return tokens, user, nil
}

// recordFailedLogin re-reads the account inside a transaction so that
// concurrent failures are all counted.
func (s *Service) recordFailedLogin(ctx context.Context, userID id.ID) {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
		user.UpdatedAt = time.Now().UTC()
		return s.userRepo.Update(ctx, user)
	})
	if err != nil {
		logger.Warn(ctx, "failed to record failed login", "user_id", userID, "error", err)
	}
}

// RefreshToken rotates a refresh token into a new token pair.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var (
		tokens *TokenPair
		reused *RefreshToken
	)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		token, err := s.tokenRepo.GetRefreshToken(ctx, hashToken(refreshToken))
		if err != nil {
			return apperror.NewUnauthorized("invalid refresh token")
		}
		if token.RevokedAt != nil && token.RevokedReason != nil && *token.RevokedReason == revokeReasonRotated {
			// a rotated token came back: the whole session family is burned
			reused = token
			return s.tokenRepo.RevokeAllUserTokens(ctx, token.UserID, revokeReasonReuse)
		}
		if !token.IsValid() {
			return apperror.NewUnauthorized("refresh token expired or revoked")
		}

		user, err := s.userRepo.GetByID(ctx, token.UserID)
		if err != nil {
			return apperror.NewUnauthorized("user not found")
		}
		if err := user.CanLogin(); err != nil {
			return err
		}

		if err := s.tokenRepo.RevokeRefreshToken(ctx, token.ID, revokeReasonRotated); err != nil {
			return fmt.Errorf("revoke refresh token: %w", err)
		}

		tokens, err = s.generateTokenPair(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	if reused != nil {
		logger.Warn(ctx, "refresh token reused, sessions revoked", "user_id", reused.UserID, "token_id", reused.ID)
		return nil, apperror.NewUnauthorized("refresh token expired or revoked")
	}
	return tokens, nil
}

// Account returns the stored account of userID. A disabled or deleted
// account yields UNAUTHORIZED so a still-valid access token cannot read it.
func (s *Service) Account(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("account no longer exists")
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if !user.IsActive {
		return nil, apperror.NewUnauthorized("account is disabled")
	}
	return user, nil
}

// Logout revokes all user's refresh tokens.
func (s *Service) Logout(ctx context.Context, userID id.ID) error {
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID, revokeReasonLogout); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	logger.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

// EnsureUser creates the account when the username is free and reports
// whether it did. An existing account is left untouched.
func (s *Service) EnsureUser(ctx context.Context, username, password, role string, centreID *id.ID) (*User, bool, error) {
	if len(password) < s.config.PasswordMinLength {
		return nil, false, apperror.NewFieldValidation("password",
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength))
	}

	var (
		user    *User
		created bool
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.userRepo.GetByUsername(ctx, username)
		if err == nil {
			user = existing
			return nil
		}
		if !apperror.IsNotFound(err) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		user = NewUser(username, string(hash), role, centreID)
		if err := user.Validate(ctx); err != nil {
			return err
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		logger.Info(ctx, "user created", "user_id", user.ID, "username", user.Username, "role", user.Role)
	}
	return user, created, nil
}

// generateTokenPair creates access and refresh tokens.
func (s *Service) generateTokenPair(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user.UserContext())
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshTokenRaw, err := generateRandomToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	refreshToken := &RefreshToken{
		ID:        id.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshTokenRaw),
		ExpiresAt: now.Add(s.config.RefreshTokenExpiry),
		CreatedAt: now,
	}
	if err := s.tokenRepo.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenRaw,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, nil
}

// hashToken creates SHA256 hash of token.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// generateRandomToken generates a random token string.
func generateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
