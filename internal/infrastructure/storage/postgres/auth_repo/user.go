// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/id"
	"centrebooks/internal/domain/auth"
	"centrebooks/internal/infrastructure/storage/postgres"
)

const userColumns = `id, username, password_hash, role, centre_id, is_active,
	last_login_at, failed_login_attempts, locked_until, created_at, updated_at`

var userConstraints = map[string]postgres.UniqueConstraint{
	"users_username_lower_key": {Entity: "user", Field: "username"},
}

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txm *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{txm: txm}
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (
			id, username, password_hash, role, centre_id, is_active,
			failed_login_attempts, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.txm.GetQuerier(ctx).Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.Role, user.CentreID,
		user.IsActive, user.FailedLoginAttempts, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if appErr := postgres.ConstraintError(err, userConstraints, user.Username); appErr != nil {
			return appErr
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(ctx, query, userID.String(), userID)
}

// GetByUsername retrieves user by username, ignoring case.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(username) = lower($1)`
	return r.scanOne(ctx, query, username, username)
}

// Update updates login state and account fields.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	query := `
		UPDATE users SET
			password_hash = $2,
			role = $3,
			centre_id = $4,
			is_active = $5,
			last_login_at = $6,
			failed_login_attempts = $7,
			locked_until = $8,
			updated_at = now()
		WHERE id = $1
	`

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, query,
		user.ID, user.PasswordHash, user.Role, user.CentreID, user.IsActive,
		user.LastLoginAt, user.FailedLoginAttempts, user.LockedUntil,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", user.ID.String())
	}
	return nil
}

func (r *UserRepo) scanOne(ctx context.Context, query, key string, arg any) (*auth.User, error) {
	var user auth.User
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.CentreID,
		&user.IsActive, &user.LastLoginAt, &user.FailedLoginAttempts, &user.LockedUntil,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("user", key)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

var _ auth.UserRepository = (*UserRepo)(nil)
