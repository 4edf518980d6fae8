package auth_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/id"
	"centrebooks/internal/domain/auth"
	"centrebooks/internal/infrastructure/storage/postgres"
)

const tokensTable = "refresh_tokens"

var (
	psql         = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	tokenColumns = postgres.ExtractDBColumns[auth.RefreshToken]()
)

// TokenRepo stores hashed refresh tokens. Raw tokens never reach the table.
type TokenRepo struct {
	txm *postgres.TxManager
}

// NewTokenRepo creates a token repository over txm.
func NewTokenRepo(txm *postgres.TxManager) *TokenRepo {
	return &TokenRepo{txm: txm}
}

func (r *TokenRepo) exec(ctx context.Context, op string, q squirrel.Sqlizer) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s: %w", op, err)
	}
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

// SaveRefreshToken inserts token.
func (r *TokenRepo) SaveRefreshToken(ctx context.Context, token *auth.RefreshToken) error {
	q := psql.Insert(tokensTable).SetMap(postgres.PickColumns(postgres.StructToMap(token), tokenColumns))
	_, err := r.exec(ctx, "save refresh token", q)
	return err
}

// GetRefreshToken looks a token up by hash, revoked ones included.
func (r *TokenRepo) GetRefreshToken(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	sql, args, err := psql.Select(tokenColumns...).
		From(tokensTable).
		Where(squirrel.Eq{"token_hash": tokenHash}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build token query: %w", err)
	}

	var token auth.RefreshToken
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &token, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("token", "")
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	return &token, nil
}

func revoke(reason string) squirrel.UpdateBuilder {
	return psql.Update(tokensTable).
		Set("revoked_at", squirrel.Expr("now()")).
		Set("revoked_reason", reason).
		Where(squirrel.Eq{"revoked_at": nil})
}

// RevokeRefreshToken marks one token revoked; already revoked tokens keep
// their original reason.
func (r *TokenRepo) RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error {
	_, err := r.exec(ctx, "revoke token", revoke(reason).Where(squirrel.Eq{"id": tokenID}))
	return err
}

// RevokeAllUserTokens revokes every live token of userID.
func (r *TokenRepo) RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error {
	_, err := r.exec(ctx, "revoke user tokens", revoke(reason).Where(squirrel.Eq{"user_id": userID}))
	return err
}

// CleanupExpiredTokens deletes expired tokens and those revoked more than
// retention ago, returning the number of rows removed.
func (r *TokenRepo) CleanupExpiredTokens(ctx context.Context, retention time.Duration) (int64, error) {
	q := psql.Delete(tokensTable).Where(squirrel.Or{
		squirrel.Expr("expires_at < now()"),
		squirrel.Expr("revoked_at < now() - make_interval(secs => ?)", retention.Seconds()),
	})
	return r.exec(ctx, "cleanup tokens", q)
}

var _ auth.TokenRepository = (*TokenRepo)(nil)
