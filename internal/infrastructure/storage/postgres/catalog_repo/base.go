// Package catalog_repo provides PostgreSQL implementations for the centre
// and item catalogs.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/id"
	"centrebooks/internal/infrastructure/storage/postgres"
)

// BaseCatalogRepo provides the CRUD shared by catalog tables. Columns come
// from the entity's "db" tags; T is a pointer to the entity.
type BaseCatalogRepo[T any] struct {
	txm         *postgres.TxManager
	tableName   string
	entityName  string
	selectCols  []string
	constraints map[string]postgres.UniqueConstraint
	newFn       func() T
}

// NewBaseCatalogRepo creates a new base catalog repository.
func NewBaseCatalogRepo[T any](
	txm *postgres.TxManager,
	tableName, entityName string,
	constraints map[string]postgres.UniqueConstraint,
	newFn func() T,
) *BaseCatalogRepo[T] {
	return &BaseCatalogRepo[T]{
		txm:         txm,
		tableName:   tableName,
		entityName:  entityName,
		selectCols:  postgres.ExtractDBColumns[T](),
		constraints: constraints,
		newFn:       newFn,
	}
}

// Builder returns a squirrel builder with PostgreSQL placeholders.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

func (r *BaseCatalogRepo[T]) insertQuery(entity T) squirrel.InsertBuilder {
	return r.Builder().
		Insert(r.tableName).
		SetMap(postgres.PickColumns(postgres.StructToMap(entity), r.selectCols))
}

// Create inserts entity; a unique violation is reported against uniqueValue.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, entity T, uniqueValue string) error {
	sql, args, err := r.insertQuery(entity).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if appErr := postgres.ConstraintError(err, r.constraints, uniqueValue); appErr != nil {
			return appErr
		}
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

// GetByID retrieves entity by ID.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	return r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": entityID}), entityID.String())
}

// FindOne runs q and scans a single row; key names the lookup in NOT_FOUND.
func (r *BaseCatalogRepo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder, key string) (T, error) {
	entity := r.newFn()

	sql, args, err := q.Limit(1).ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			var zero T
			return zero, apperror.NewNotFound(r.entityName, key)
		}
		return entity, fmt.Errorf("get %s: %w", r.entityName, err)
	}
	return entity, nil
}

// ListByIDs returns rows ordered by name; nil ids means every row.
func (r *BaseCatalogRepo[T]) ListByIDs(ctx context.Context, ids []id.ID) ([]T, error) {
	q := r.baseSelect().OrderBy("name ASC", "id ASC")
	if ids != nil {
		q = q.Where(squirrel.Eq{"id": ids})
	}
	return r.Select(ctx, q)
}

// Select runs q and scans every row.
func (r *BaseCatalogRepo[T]) Select(ctx context.Context, q squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]T, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return items, nil
}

// Delete performs physical removal; dependent rows follow the foreign key rules.
func (r *BaseCatalogRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	sql, args, err := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if appErr := postgres.ConstraintError(err, nil, ""); appErr != nil {
			return appErr
		}
		return fmt.Errorf("delete %s: %w", r.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID.String())
	}
	return nil
}
