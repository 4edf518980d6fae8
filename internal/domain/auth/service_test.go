package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"centrebooks/internal/core/apperror"
	appctx "centrebooks/internal/core/context"
	"centrebooks/internal/domain/auth"
	"centrebooks/internal/infrastructure/storage/memory"
)

const password = "long-enough-1"

func newAuthService(t *testing.T) *auth.Service {
	t.Helper()
	store := memory.NewStore()

	cfg := auth.DefaultServiceConfig()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.MaxLoginAttempts = 2
	cfg.LockDuration = time.Minute

	svc := auth.NewService(store.Users(), store.Tokens(), store.TxManager(),
		auth.NewJWTService(auth.DefaultJWTConfig("secret")), cfg)

	_, created, err := svc.EnsureUser(context.Background(), "admin", password, appctx.RoleAdmin, nil)
	require.NoError(t, err)
	require.True(t, created)
	return svc
}

func TestServiceLoginAndRotate(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	first, user, err := svc.Login(ctx, auth.Credentials{Username: "ADMIN", Password: password})
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)

	second, err := svc.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.RefreshToken(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestServiceRefreshReuseRevokesFamily(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	first, _, err := svc.Login(ctx, auth.Credentials{Username: "admin", Password: password})
	require.NoError(t, err)
	second, err := svc.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, first.RefreshToken)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized), "replayed token: %v", err)

	// the legitimate successor is burned too
	_, err = svc.RefreshToken(ctx, second.RefreshToken)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
}

func TestServiceLockout(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	for range 2 {
		_, _, err := svc.Login(ctx, auth.Credentials{Username: "admin", Password: "wrong-password"})
		require.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
	}

	_, _, err := svc.Login(ctx, auth.Credentials{Username: "admin", Password: password})
	assert.True(t, apperror.HasCode(err, apperror.CodeForbidden), "locked account: %v", err)
}

func TestServiceCountsConcurrentFailures(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	cfg := auth.DefaultServiceConfig()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.MaxLoginAttempts = 100
	svc := auth.NewService(store.Users(), store.Tokens(), store.TxManager(),
		auth.NewJWTService(auth.DefaultJWTConfig("secret")), cfg)

	_, _, err := svc.EnsureUser(ctx, "admin", password, appctx.RoleAdmin, nil)
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Login(ctx, auth.Credentials{Username: "admin", Password: "wrong-password"})
			assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
		}()
	}
	wg.Wait()

	user, err := store.Users().GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, attempts, user.FailedLoginAttempts)
}

func TestServiceEnsureUserRejectsShortPassword(t *testing.T) {
	svc := newAuthService(t)
	_, _, err := svc.EnsureUser(context.Background(), "x", "short", appctx.RoleAdmin, nil)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}
