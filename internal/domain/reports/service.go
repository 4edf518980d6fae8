package reports

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"centrebooks/internal/core/id"
	"centrebooks/internal/core/period"
	"centrebooks/internal/core/security"
	"centrebooks/internal/core/types"
	"centrebooks/internal/domain/catalogs/centre"
	"centrebooks/internal/domain/catalogs/item"
	"centrebooks/pkg/logger"
)

var tracer = otel.Tracer("centrebooks/reports")

// Service provides report generation operations.
type Service struct {
	repo    Repository
	centres centre.Repository
	items   item.Repository
	now     func() time.Time
}

// NewService creates a new reports service.
func NewService(repo Repository, centres centre.Repository, items item.Repository) *Service {
	return &Service{
		repo:    repo,
		centres: centres,
		items:   items,
		now:     time.Now,
	}
}

// WithClock replaces the clock used by the dashboard.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Aggregate builds the Centre x Item matrix for statements ending inside r.
// Centre-bound principals only ever see their own centre. itemIDs narrows the
// item columns; none means the whole catalogue.
func (s *Service) Aggregate(ctx context.Context, p security.Principal, r period.Range, itemIDs ...id.ID) (*Matrix, error) {
	ctx, span := tracer.Start(ctx, "reports.Aggregate",
		trace.WithAttributes(attribute.String("report.range", r.String())))
	defer span.End()

	scope, centres, err := s.visibleCentres(ctx, p)
	if err != nil {
		return nil, err
	}

	items, err := s.items.List(ctx, item.ListFilter{IDs: itemIDs})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	totals, err := s.repo.SumByCentreItem(ctx, TotalsFilter{Range: r, CentreID: scope, ItemIDs: itemIDs})
	if err != nil {
		return nil, fmt.Errorf("sum statements: %w", err)
	}
	idx := indexTotals(totals)

	m := &Matrix{
		Range:       r,
		Items:       make([]ItemColumn, 0, len(items)),
		Rows:        make([]Row, 0, len(centres)),
		ColumnCount: ColumnCount(len(items)),
	}
	for _, it := range items {
		m.Items = append(m.Items, ItemColumn{ItemID: it.ID, Code: it.Code, Name: it.Name})
	}

	for _, c := range centres {
		row := Row{CentreID: c.ID, CentreName: c.Name, Cells: make([]Cell, 0, len(items))}
		for _, it := range items {
			t := idx[pairKey{c.ID, it.ID}]
			row.Cells = append(row.Cells, Cell{
				ItemID:    it.ID,
				Received:  t.Received,
				Sold:      t.Sold,
				Remaining: t.Remaining,
				Amount:    types.Round2(t.Amount),
			})
		}
		m.Rows = append(m.Rows, row)
	}

	span.SetAttributes(
		attribute.Int("report.centres", len(m.Rows)),
		attribute.Int("report.items", len(m.Items)),
	)
	logger.Debug(ctx, "report aggregated", "range", r.String(), "centres", len(m.Rows), "items", len(m.Items))
	return m, nil
}

// BuildExportRows lays out the two-item sheet for statements ending inside r.
// An unresolved pinned item contributes zeros.
func (s *Service) BuildExportRows(ctx context.Context, p security.Principal, r period.Range, pinned PinnedItems) (*ExportRowSet, error) {
	ctx, span := tracer.Start(ctx, "reports.BuildExportRows",
		trace.WithAttributes(attribute.String("report.range", r.String())))
	defer span.End()

	scope, centres, err := s.visibleCentres(ctx, p)
	if err != nil {
		return nil, err
	}

	var resolved [2]*item.Item
	var itemIDs []id.ID
	for i, ref := range pinned {
		it, err := item.ResolvePinned(ctx, s.items, ref)
		if err != nil {
			return nil, fmt.Errorf("resolve pinned item %q: %w", ref.Name, err)
		}
		if it == nil {
			logger.Warn(ctx, "pinned export item not found", "name", ref.Name, "code_fragment", ref.CodeFragment)
			continue
		}
		resolved[i] = it
		itemIDs = append(itemIDs, it.ID)
	}

	var idx map[pairKey]Totals
	if len(itemIDs) > 0 {
		totals, err := s.repo.SumByCentreItem(ctx, TotalsFilter{Range: r, CentreID: scope, ItemIDs: itemIDs})
		if err != nil {
			return nil, fmt.Errorf("sum statements: %w", err)
		}
		idx = indexTotals(totals)
	}

	set := &ExportRowSet{
		Headers:      append([]string(nil), ExportHeaders...),
		Rows:         make([]ExportRow, 0, len(centres)),
		FirstDataRow: ExportFirstRow,
	}

	for i, it := range resolved {
		set.Summary[i] = PinnedSummary{Label: pinned[i].Label, UnitPrice: types.Zero()}
		if it == nil {
			continue
		}
		set.Summary[i].Resolved = true
		set.Summary[i].UnitPrice = it.DefaultUnitPrice
		// the summary spans every statement in the window, centre listed or not
		for k, t := range idx {
			if k.item != it.ID {
				continue
			}
			set.Summary[i].Received += t.Received
			set.Summary[i].Sold += t.Sold
			set.Summary[i].Remaining += t.Remaining
		}
	}

	cellOf := func(centreID id.ID, slot int) Totals {
		if resolved[slot] == nil {
			return Totals{Amount: types.Zero(), Expenses: types.Zero()}
		}
		return idx[pairKey{centreID, resolved[slot].ID}]
	}

	for _, c := range centres {
		a, b := cellOf(c.ID, 0), cellOf(c.ID, 1)
		set.Rows = append(set.Rows, ExportRow{
			CentreName: c.Name,
			ReceivedA:  a.Received,
			ReceivedB:  b.Received,
			SoldA:      a.Sold,
			PriceA:     set.Summary[0].UnitPrice,
			AmountA:    types.Round2(a.Amount),
			SoldB:      b.Sold,
			PriceB:     set.Summary[1].UnitPrice,
			AmountB:    types.Round2(b.Amount),
			RemainingA: a.Remaining,
			RemainingB: b.Remaining,
			Expenses:   types.Round2(types.Sum(a.Expenses, b.Expenses)),
		})
	}

	set.LastDataRow = set.FirstDataRow + len(set.Rows) - 1
	set.TotalRow = set.LastDataRow + 1
	set.SumRow = set.TotalRow + 2
	set.TotalFormulas = totalFormulas(set.FirstDataRow, set.LastDataRow)
	set.SumFormula = sumFormula(set.FirstDataRow, set.LastDataRow)

	span.SetAttributes(attribute.Int("report.centres", len(set.Rows)))
	return set, nil
}

// Dashboard summarizes the statements ending in the current month.
func (s *Service) Dashboard(ctx context.Context, p security.Principal) (*Dashboard, error) {
	now := s.now()
	r, err := period.Month(now.Year(), now.Month())
	if err != nil {
		return nil, err
	}

	scope, centres, err := s.visibleCentres(ctx, p)
	if err != nil {
		return nil, err
	}
	items, err := s.items.List(ctx, item.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	totals, err := s.repo.SumByCentreItem(ctx, TotalsFilter{Range: r, CentreID: scope})
	if err != nil {
		return nil, fmt.Errorf("sum statements: %w", err)
	}

	centreNames := make(map[id.ID]string, len(centres))
	for _, c := range centres {
		centreNames[c.ID] = c.Name
	}
	itemNames := make(map[id.ID]string, len(items))
	for _, it := range items {
		itemNames[it.ID] = it.Name
	}

	d := &Dashboard{
		Year:      now.Year(),
		Month:     now.Month(),
		MonthName: MonthName(now.Month()),
		Total:     types.Zero(),
		Items:     []ItemSales{},
	}

	byCentre := map[id.ID]*CentreSales{}
	byItem := map[id.ID]*ItemSales{}
	for _, t := range totals {
		d.Total = d.Total.Add(t.Amount)

		cs, ok := byCentre[t.CentreID]
		if !ok {
			cs = &CentreSales{CentreID: t.CentreID, CentreName: centreNames[t.CentreID], Amount: types.Zero()}
			byCentre[t.CentreID] = cs
		}
		cs.Amount = cs.Amount.Add(t.Amount)

		is, ok := byItem[t.ItemID]
		if !ok {
			is = &ItemSales{ItemID: t.ItemID, ItemName: itemNames[t.ItemID], Amount: types.Zero()}
			byItem[t.ItemID] = is
		}
		is.Sold += t.Sold
		is.Amount = is.Amount.Add(t.Amount)
	}
	d.Total = types.Round2(d.Total)

	for _, cs := range byCentre {
		cs.Amount = types.Round2(cs.Amount)
		if d.BestCentre == nil ||
			cs.Amount.GreaterThan(d.BestCentre.Amount) ||
			(cs.Amount.Equal(d.BestCentre.Amount) && cs.CentreName < d.BestCentre.CentreName) {
			best := *cs
			d.BestCentre = &best
		}
	}

	for _, is := range byItem {
		is.Amount = types.Round2(is.Amount)
		d.Items = append(d.Items, *is)
	}
	sort.Slice(d.Items, func(i, j int) bool {
		if d.Items[i].Sold != d.Items[j].Sold {
			return d.Items[i].Sold > d.Items[j].Sold
		}
		return strings.ToLower(d.Items[i].ItemName) < strings.ToLower(d.Items[j].ItemName)
	})
	if len(d.Items) > 0 {
		top := d.Items[0]
		d.TopItem = &top
	}

	return d, nil
}

// visibleCentres returns the principal's centre scope and the centres it may see, by name.
func (s *Service) visibleCentres(ctx context.Context, p security.Principal) (*id.ID, []*centre.Centre, error) {
	scope, err := p.CentreScope()
	if err != nil {
		return nil, nil, err
	}

	filter := centre.ListFilter{}
	if scope != nil {
		filter.IDs = []id.ID{*scope}
	}
	centres, err := s.centres.List(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("list centres: %w", err)
	}
	return scope, centres, nil
}
