package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/id"
	"centrebooks/internal/core/period"
	"centrebooks/internal/domain"
	"centrebooks/internal/domain/reports"
	"centrebooks/internal/domain/statements"
)

// StatementRepo implements statements.Repository.
type StatementRepo struct{ s *Store }

func (r *StatementRepo) Create(ctx context.Context, st *statements.Statement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUnique(st); err != nil {
		return err
	}
	r.s.statements[st.ID] = r.stored(st)
	return nil
}

func (r *StatementRepo) Update(ctx context.Context, st *statements.Statement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.statements[st.ID]
	if !ok {
		return apperror.NewNotFound("statement", st.ID.String())
	}
	if err := r.checkUnique(st); err != nil {
		return err
	}
	row := r.stored(st)
	row.CreatedAt = prev.CreatedAt
	r.s.statements[st.ID] = row
	return nil
}

func (r *StatementRepo) Delete(ctx context.Context, statementID id.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.statements[statementID]; !ok {
		return apperror.NewNotFound("statement", statementID.String())
	}
	delete(r.s.statements, statementID)
	return nil
}

func (r *StatementRepo) GetByID(ctx context.Context, statementID id.ID) (*statements.Statement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.statements[statementID]
	if !ok {
		return nil, apperror.NewNotFound("statement", statementID.String())
	}
	return r.joined(st), nil
}

func (r *StatementRepo) List(ctx context.Context, filter statements.ListFilter) (domain.ListResult[*statements.Statement], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*statements.Statement, 0, len(r.s.statements))
	for _, st := range r.s.statements {
		if filter.CentreID != nil && st.CentreID != *filter.CentreID {
			continue
		}
		if filter.ItemID != nil && st.ItemID != *filter.ItemID {
			continue
		}
		if filter.Range != nil && !filter.Range.Contains(st.DateEnd) {
			continue
		}
		all = append(all, r.joined(st))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].DateEnd.Equal(all[j].DateEnd) {
			return all[i].DateEnd.After(all[j].DateEnd)
		}
		return all[i].CentreName < all[j].CentreName
	})

	page := filter.Page.Normalize()
	res := domain.ListResult[*statements.Statement]{
		Items:      []*statements.Statement{},
		TotalCount: int64(len(all)),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if page.Offset < len(all) {
		end := min(page.Offset+page.Limit, len(all))
		res.Items = all[page.Offset:end]
	}
	return res, nil
}

func (r *StatementRepo) FindOverlapping(ctx context.Context, centreID, itemID id.ID, start, end time.Time, excludeID *id.ID) (*statements.Statement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *statements.Statement
	for _, st := range r.s.statements {
		if st.CentreID != centreID || st.ItemID != itemID {
			continue
		}
		if excludeID != nil && st.ID == *excludeID {
			continue
		}
		if !(period.Range{Start: st.DateStart, End: st.DateEnd}).Overlaps(start, end) {
			continue
		}
		if found == nil || st.DateStart.Before(found.DateStart) {
			found = r.joined(st)
		}
	}
	return found, nil
}

// checkUnique enforces the (centre, item, start, end) key. Callers hold the lock.
func (r *StatementRepo) checkUnique(st *statements.Statement) error {
	for _, other := range r.s.statements {
		if other.ID == st.ID {
			continue
		}
		if other.CentreID == st.CentreID && other.ItemID == st.ItemID &&
			other.DateStart.Equal(st.DateStart) && other.DateEnd.Equal(st.DateEnd) {
			return apperror.NewDuplicate("statement", "period",
				st.DateStart.Format(time.DateOnly)+".."+st.DateEnd.Format(time.DateOnly))
		}
	}
	return nil
}

// stored strips the joined columns, which are never persisted.
func (r *StatementRepo) stored(st *statements.Statement) statements.Statement {
	row := *st
	row.CentreName = ""
	row.ItemName = ""
	return row
}

// joined fills the display names the SQL listing joins in. Callers hold the lock.
func (r *StatementRepo) joined(st statements.Statement) *statements.Statement {
	if c, ok := r.s.centres[st.CentreID]; ok {
		st.CentreName = c.Name
	}
	if it, ok := r.s.items[st.ItemID]; ok {
		st.ItemName = it.Name
	}
	return &st
}

// ReportRepo implements reports.Repository.
type ReportRepo struct{ s *Store }

func (r *ReportRepo) SumByCentreItem(ctx context.Context, filter reports.TotalsFilter) ([]reports.Totals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	type key struct{ centre, item id.ID }
	sums := map[key]*reports.Totals{}
	var order []key

	for _, st := range r.s.statements {
		if !filter.Range.Contains(st.DateEnd) {
			continue
		}
		if filter.CentreID != nil && st.CentreID != *filter.CentreID {
			continue
		}
		if len(filter.ItemIDs) > 0 && !slices.Contains(filter.ItemIDs, st.ItemID) {
			continue
		}

		k := key{st.CentreID, st.ItemID}
		t, ok := sums[k]
		if !ok {
			t = &reports.Totals{CentreID: st.CentreID, ItemID: st.ItemID}
			sums[k] = t
			order = append(order, k)
		}
		t.Received += st.QuantityReceived
		t.Sold += st.QuantitySold
		t.Remaining += st.QuantityRemaining
		t.Amount = t.Amount.Add(st.SalesAmount)
		t.Expenses = t.Expenses.Add(st.OtherExpenses)
	}

	out := make([]reports.Totals, 0, len(order))
	for _, k := range order {
		out = append(out, *sums[k])
	}
	return out, nil
}
