// Package statement_repo provides the PostgreSQL statement repository.
package statement_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/id"
	"centrebooks/internal/domain"
	"centrebooks/internal/domain/statements"
	"centrebooks/internal/infrastructure/storage/postgres"
)

const tableName = "statements"

// display columns joined in by reads, never written
var joinedColumns = map[string]bool{"centre_name": true, "item_name": true}

var uniqueConstraints = map[string]postgres.UniqueConstraint{
	"statements_centre_item_period_key": {Entity: "statement", Field: "period"},
}

// StatementRepo implements statements.Repository.
type StatementRepo struct {
	txm          *postgres.TxManager
	builder      squirrel.StatementBuilderType
	writeColumns []string
	readColumns  []string
}

var _ statements.Repository = (*StatementRepo)(nil)

// NewStatementRepo creates a new statement repository.
func NewStatementRepo(txm *postgres.TxManager) *StatementRepo {
	r := &StatementRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	for _, col := range postgres.ExtractDBColumns[statements.Statement]() {
		if joinedColumns[col] {
			continue
		}
		r.writeColumns = append(r.writeColumns, col)
		r.readColumns = append(r.readColumns, "s."+col)
	}
	r.readColumns = append(r.readColumns, "c.name AS centre_name", "i.name AS item_name")
	return r
}

func (r *StatementRepo) Create(ctx context.Context, s *statements.Statement) error {
	sql, args, err := r.insertQuery(s).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return r.writeError("insert", s, err)
	}
	return nil
}

func (r *StatementRepo) Update(ctx context.Context, s *statements.Statement) error {
	sql, args, err := r.updateQuery(s).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.writeError("update", s, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("statement", s.ID.String())
	}
	return nil
}

func (r *StatementRepo) Delete(ctx context.Context, statementID id.ID) error {
	sql, args, err := r.builder.
		Delete(tableName).
		Where(squirrel.Eq{"id": statementID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete statement: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("statement", statementID.String())
	}
	return nil
}

func (r *StatementRepo) GetByID(ctx context.Context, statementID id.ID) (*statements.Statement, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"s.id": statementID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var st statements.Statement
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &st, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("statement", statementID.String())
		}
		return nil, fmt.Errorf("get statement: %w", err)
	}
	return &st, nil
}

func (r *StatementRepo) List(ctx context.Context, filter statements.ListFilter) (domain.ListResult[*statements.Statement], error) {
	page := filter.Page.Normalize()
	result := domain.ListResult[*statements.Statement]{
		Items:  []*statements.Statement{},
		Limit:  page.Limit,
		Offset: page.Offset,
	}

	where := listConditions(filter)
	querier := r.txm.GetQuerier(ctx)

	countSQL, countArgs, err := r.builder.
		Select("COUNT(*)").
		From(tableName + " s").
		Where(where).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count statements: %w", err)
	}

	sql, args, err := r.listQuery(where, page).ToSql()
	if err != nil {
		return result, fmt.Errorf("build list query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list statements: %w", err)
	}
	return result, nil
}

func (r *StatementRepo) FindOverlapping(ctx context.Context, centreID, itemID id.ID, start, end time.Time, excludeID *id.ID) (*statements.Statement, error) {
	sql, args, err := r.overlapQuery(centreID, itemID, start, end, excludeID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build overlap query: %w", err)
	}

	var st statements.Statement
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &st, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find overlapping statement: %w", err)
	}
	return &st, nil
}

func (r *StatementRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.
		Select(r.readColumns...).
		From(tableName + " s").
		Join("centres c ON c.id = s.centre_id").
		Join("items i ON i.id = s.item_id")
}

func (r *StatementRepo) insertQuery(s *statements.Statement) squirrel.InsertBuilder {
	return r.builder.
		Insert(tableName).
		SetMap(postgres.PickColumns(postgres.StructToMap(s), r.writeColumns))
}

func (r *StatementRepo) updateQuery(s *statements.Statement) squirrel.UpdateBuilder {
	data := postgres.PickColumns(postgres.StructToMap(s), r.writeColumns)
	delete(data, "id")
	delete(data, "created_at")
	return r.builder.
		Update(tableName).
		SetMap(data).
		Where(squirrel.Eq{"id": s.ID})
}

func (r *StatementRepo) listQuery(where squirrel.And, page domain.Page) squirrel.SelectBuilder {
	return r.baseSelect().
		Where(where).
		OrderBy("s.date_end DESC", "c.name ASC", "i.name ASC", "s.id ASC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset))
}

// overlapQuery finds the earliest statement of the pair whose range meets [start, end].
func (r *StatementRepo) overlapQuery(centreID, itemID id.ID, start, end time.Time, excludeID *id.ID) squirrel.SelectBuilder {
	q := r.baseSelect().
		Where(squirrel.Eq{"s.centre_id": centreID, "s.item_id": itemID}).
		Where(squirrel.LtOrEq{"s.date_start": end}).
		Where(squirrel.GtOrEq{"s.date_end": start})
	if excludeID != nil {
		q = q.Where(squirrel.NotEq{"s.id": *excludeID})
	}
	return q.OrderBy("s.date_start ASC").Limit(1)
}

func listConditions(filter statements.ListFilter) squirrel.And {
	where := squirrel.And{}
	if filter.CentreID != nil {
		where = append(where, squirrel.Eq{"s.centre_id": *filter.CentreID})
	}
	if filter.ItemID != nil {
		where = append(where, squirrel.Eq{"s.item_id": *filter.ItemID})
	}
	if filter.Range != nil && !filter.Range.Unbounded {
		where = append(where,
			squirrel.GtOrEq{"s.date_end": filter.Range.Start},
			squirrel.LtOrEq{"s.date_end": filter.Range.End},
		)
	}
	return where
}

func (r *StatementRepo) writeError(op string, s *statements.Statement, err error) error {
	period := s.DateStart.Format(time.DateOnly) + ".." + s.DateEnd.Format(time.DateOnly)
	if appErr := postgres.ConstraintError(err, uniqueConstraints, period); appErr != nil {
		return appErr
	}
	return fmt.Errorf("%s statement: %w", op, err)
}
