// Package report_repo provides the PostgreSQL aggregation queries behind reports.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"centrebooks/internal/domain/reports"
	"centrebooks/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// SumByCentreItem sums statements per (centre, item), matching on date_end.
func (r *ReportRepo) SumByCentreItem(ctx context.Context, filter reports.TotalsFilter) ([]reports.Totals, error) {
	sql, args, err := r.totalsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build totals query: %w", err)
	}

	totals := make([]reports.Totals, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &totals, sql, args...); err != nil {
		return nil, fmt.Errorf("sum statements: %w", err)
	}
	return totals, nil
}

func (r *ReportRepo) totalsQuery(filter reports.TotalsFilter) squirrel.SelectBuilder {
	q := r.builder.
		Select(
			"centre_id",
			"item_id",
			"COALESCE(SUM(quantity_received), 0) AS received",
			"COALESCE(SUM(quantity_sold), 0) AS sold",
			"COALESCE(SUM(quantity_remaining), 0) AS remaining",
			"COALESCE(SUM(sales_amount), 0) AS amount",
			"COALESCE(SUM(other_expenses), 0) AS expenses",
		).
		From("statements").
		GroupBy("centre_id", "item_id")

	if !filter.Range.Unbounded {
		q = q.Where(squirrel.GtOrEq{"date_end": filter.Range.Start}).
			Where(squirrel.LtOrEq{"date_end": filter.Range.End})
	}
	if filter.CentreID != nil {
		q = q.Where(squirrel.Eq{"centre_id": *filter.CentreID})
	}
	if len(filter.ItemIDs) > 0 {
		q = q.Where(squirrel.Eq{"item_id": filter.ItemIDs})
	}
	return q
}
