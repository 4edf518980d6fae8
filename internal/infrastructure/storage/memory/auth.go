package memory

import (
	"context"
	"strings"
	"time"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/id"
	"centrebooks/internal/domain/auth"
)

// UserRepo implements auth.UserRepository.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(ctx context.Context, u *auth.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.users {
		if strings.EqualFold(other.Username, u.Username) {
			return apperror.NewDuplicate("user", "username", u.Username)
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, apperror.NewNotFound("user", username)
}

func (r *UserRepo) Update(ctx context.Context, u *auth.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[u.ID]; !ok {
		return apperror.NewNotFound("user", u.ID.String())
	}
	r.s.users[u.ID] = *u
	return nil
}

// TokenRepo implements auth.TokenRepository.
type TokenRepo struct{ s *Store }

func (r *TokenRepo) SaveRefreshToken(ctx context.Context, t *auth.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tokens[t.ID] = *t
	return nil
}

func (r *TokenRepo) GetRefreshToken(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.tokens {
		if t.TokenHash == tokenHash {
			return &t, nil
		}
	}
	return nil, apperror.NewNotFound("refresh_token", "")
}

func (r *TokenRepo) RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tokens[tokenID]
	if !ok {
		return apperror.NewNotFound("refresh_token", tokenID.String())
	}
	revoke(&t, reason)
	r.s.tokens[tokenID] = t
	return nil
}

func (r *TokenRepo) RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for tid, t := range r.s.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			revoke(&t, reason)
			r.s.tokens[tid] = t
		}
	}
	return nil
}

func revoke(t *auth.RefreshToken, reason string) {
	now := time.Now().UTC()
	t.RevokedAt = &now
	t.RevokedReason = &reason
}
