package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/period"
	"centrebooks/internal/core/security"
	"centrebooks/internal/core/types"
	"centrebooks/internal/domain/catalogs/centre"
	"centrebooks/internal/domain/catalogs/item"
	"centrebooks/internal/domain/reports"
	"centrebooks/internal/domain/statements"
	"centrebooks/internal/infrastructure/storage/memory"
)

type fixture struct {
	svc     *reports.Service
	centres map[string]*centre.Centre
	items   map[string]*item.Item
	admin   security.Principal
}

// newFixture seeds four centres, three items and February 2024 statements:
//
//	Abidjan  Viatique  02-01..02-29  recv 40 sold 30  exp 500
//	Abidjan  Activités 02-01..02-29  recv 20 sold 25  exp 300
//	Bouaké   Viatique  02-01..02-29  recv 10 sold 4
//	Daloa    Viatique  02-01..02-07  recv 5  sold 5
//	Daloa    Viatique  02-08..02-14  recv 5  sold 3
//	Daloa    Viatique  02-20..03-05  recv 9  sold 9   (ends in March)
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	f := &fixture{
		centres: map[string]*centre.Centre{},
		items:   map[string]*item.Item{},
		admin:   security.Unrestricted("admin"),
	}
	for _, name := range []string{"Yamoussoukro", "Daloa", "Bouaké", "Abidjan"} {
		c := centre.NewCentre(name, name, "")
		require.NoError(t, store.Centres().Create(ctx, c))
		f.centres[name] = c
	}
	for _, it := range []*item.Item{
		item.NewItem("VIAT-01", "Viatique", 120, types.MustMoney("1500")),
		item.NewItem("ACT-01", "Activités", 80, types.MustMoney("1000")),
		item.NewItem("CANT-01", "Cantiques", 300, types.MustMoney("2000")),
	} {
		require.NoError(t, store.Items().Create(ctx, it))
		f.items[it.Name] = it
	}

	stmts := statements.NewService(store.Statements(), store.Centres(), store.Items(), store.TxManager())
	file := func(c, it, start, end string, recv, sold int64, expenses string) {
		t.Helper()
		_, err := stmts.Create(ctx, f.admin, statements.Input{
			CentreID:         f.centres[c].ID,
			ItemID:           f.items[it].ID,
			DateStart:        day(start),
			DateEnd:          day(end),
			QuantityReceived: recv,
			QuantitySold:     sold,
			OtherExpenses:    types.MustMoney(expenses),
		})
		require.NoError(t, err)
	}
	file("Abidjan", "Viatique", "2024-02-01", "2024-02-29", 40, 30, "500")
	file("Abidjan", "Activités", "2024-02-01", "2024-02-29", 20, 25, "300")
	file("Bouaké", "Viatique", "2024-02-01", "2024-02-29", 10, 4, "0")
	file("Daloa", "Viatique", "2024-02-01", "2024-02-07", 5, 5, "0")
	file("Daloa", "Viatique", "2024-02-08", "2024-02-14", 5, 3, "0")
	file("Daloa", "Viatique", "2024-02-20", "2024-03-05", 9, 9, "0")

	f.svc = reports.NewService(store.Reports(), store.Centres(), store.Items())
	return f
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func february(t *testing.T) period.Range {
	r, err := period.Month(2024, time.February)
	require.NoError(t, err)
	return r
}

func TestAggregate_Admin(t *testing.T) {
	f := newFixture(t)

	m, err := f.svc.Aggregate(context.Background(), f.admin, february(t))
	require.NoError(t, err)

	require.Len(t, m.Items, 3)
	assert.Equal(t, []string{"Activités", "Cantiques", "Viatique"},
		[]string{m.Items[0].Name, m.Items[1].Name, m.Items[2].Name})
	assert.Equal(t, 13, m.ColumnCount)

	require.Len(t, m.Rows, 4)
	names := []string{}
	for _, r := range m.Rows {
		names = append(names, r.CentreName)
		assert.Len(t, r.Cells, 3)
	}
	assert.Equal(t, []string{"Abidjan", "Bouaké", "Daloa", "Yamoussoukro"}, names)

	abidjan := m.Rows[0]
	assert.Equal(t, int64(20), abidjan.Cells[0].Received)
	assert.Equal(t, int64(25), abidjan.Cells[0].Sold)
	assert.Equal(t, int64(-5), abidjan.Cells[0].Remaining)
	assert.Equal(t, "25000.00", abidjan.Cells[0].Amount.StringFixed(2))
	assert.Equal(t, "45000.00", abidjan.Cells[2].Amount.StringFixed(2))

	daloa := m.Rows[2].Cells[2]
	assert.Equal(t, int64(10), daloa.Received, "the statement ending in March belongs to March")
	assert.Equal(t, int64(8), daloa.Sold)
	assert.Equal(t, int64(2), daloa.Remaining)
	assert.Equal(t, "12000.00", daloa.Amount.StringFixed(2))

	yam := m.Rows[3].Cells[1]
	assert.Zero(t, yam.Received)
	assert.True(t, yam.Amount.IsZero())
}

func TestAggregate_EmptyWindowHasZeroRows(t *testing.T) {
	f := newFixture(t)

	m, err := f.svc.Aggregate(context.Background(), f.admin, period.Year(2019))
	require.NoError(t, err)

	require.Len(t, m.Rows, 4)
	for _, r := range m.Rows {
		require.Len(t, r.Cells, 3)
		for _, c := range r.Cells {
			assert.Zero(t, c.Received)
			assert.Zero(t, c.Sold)
			assert.Zero(t, c.Remaining)
			assert.Equal(t, "0.00", c.Amount.StringFixed(2))
		}
	}
}

func TestAggregate_CentreBoundSeesOnlyItself(t *testing.T) {
	f := newFixture(t)
	bouake := f.centres["Bouaké"]
	p := security.CentreBound("clerk", bouake.ID)

	for _, r := range []period.Range{february(t), period.Global(), period.Year(2019)} {
		m, err := f.svc.Aggregate(context.Background(), p, r)
		require.NoError(t, err)
		require.Len(t, m.Rows, 1, r.String())
		assert.Equal(t, bouake.ID, m.Rows[0].CentreID)
	}
}

func TestAggregate_GlobalAndItemFilter(t *testing.T) {
	f := newFixture(t)
	viat := f.items["Viatique"]

	m, err := f.svc.Aggregate(context.Background(), f.admin, period.Global(), viat.ID)
	require.NoError(t, err)

	require.Len(t, m.Items, 1)
	assert.Equal(t, 5, m.ColumnCount)
	assert.Equal(t, int64(19), m.Rows[2].Cells[0].Received, "global includes the March statement")
}

func TestAggregate_Anonymous(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Aggregate(context.Background(), security.Principal{}, period.Global())
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
}

func TestBuildExportRows(t *testing.T) {
	f := newFixture(t)

	set, err := f.svc.BuildExportRows(context.Background(), f.admin, february(t), reports.DefaultPinnedItems())
	require.NoError(t, err)

	assert.Equal(t, "VIATIQUE", set.Summary[0].Label)
	assert.True(t, set.Summary[0].Resolved)
	assert.Equal(t, int64(60), set.Summary[0].Received)
	assert.Equal(t, int64(42), set.Summary[0].Sold)
	assert.Equal(t, int64(18), set.Summary[0].Remaining)
	assert.Equal(t, "ACTIVITE", set.Summary[1].Label)
	assert.Equal(t, int64(-5), set.Summary[1].Remaining)

	assert.Equal(t, reports.ExportHeaders, set.Headers)
	require.Len(t, set.Rows, 4)

	abidjan := set.Rows[0]
	assert.Equal(t, "Abidjan", abidjan.CentreName)
	assert.Equal(t, int64(40), abidjan.ReceivedA)
	assert.Equal(t, int64(20), abidjan.ReceivedB)
	assert.Equal(t, int64(30), abidjan.SoldA)
	assert.Equal(t, "1500.00", abidjan.PriceA.StringFixed(2))
	assert.Equal(t, "45000.00", abidjan.AmountA.StringFixed(2))
	assert.Equal(t, int64(25), abidjan.SoldB)
	assert.Equal(t, "1000.00", abidjan.PriceB.StringFixed(2))
	assert.Equal(t, "25000.00", abidjan.AmountB.StringFixed(2))
	assert.Equal(t, int64(10), abidjan.RemainingA)
	assert.Equal(t, int64(-5), abidjan.RemainingB)
	assert.Equal(t, "800.00", abidjan.Expenses.StringFixed(2))
	assert.Len(t, abidjan.Values(), 11)

	assert.Equal(t, 6, set.FirstDataRow)
	assert.Equal(t, 9, set.LastDataRow)
	assert.Equal(t, 10, set.TotalRow)
	assert.Equal(t, 12, set.SumRow)

	require.Len(t, set.TotalFormulas, 11)
	assert.Equal(t, "=SUM(B6:B9)", set.TotalFormulas[0])
	assert.Equal(t, "=SUM(F6:F9)", set.TotalFormulas[4])
	assert.Equal(t, "=SUM(L6:L9)", set.TotalFormulas[10])
	assert.Equal(t, "=SUM(F6:F9)+SUM(I6:I9)", set.SumFormula)
}

func TestBuildExportRows_UnresolvedPinnedIsZero(t *testing.T) {
	f := newFixture(t)

	pinned := reports.PinnedItems{
		{Name: "Viatique", CodeFragment: "VIAT", Label: "VIATIQUE"},
		{Name: "Psautier", CodeFragment: "PSAU", Label: "PSAUTIER"},
	}
	set, err := f.svc.BuildExportRows(context.Background(), f.admin, february(t), pinned)
	require.NoError(t, err)

	assert.False(t, set.Summary[1].Resolved)
	assert.Zero(t, set.Summary[1].Received)
	for _, r := range set.Rows {
		assert.Zero(t, r.ReceivedB)
		assert.Zero(t, r.SoldB)
		assert.True(t, r.PriceB.IsZero())
		assert.True(t, r.AmountB.IsZero())
	}
	assert.Equal(t, "500.00", set.Rows[0].Expenses.StringFixed(2), "only the resolved item's expenses count")
}

func TestBuildExportRows_CodeFragmentFallback(t *testing.T) {
	f := newFixture(t)

	pinned := reports.PinnedItems{
		{Name: "Le Viatique", CodeFragment: "viat", Label: "VIATIQUE"},
		{Name: "", CodeFragment: "act", Label: "ACTIVITE"},
	}
	set, err := f.svc.BuildExportRows(context.Background(), f.admin, february(t), pinned)
	require.NoError(t, err)

	assert.True(t, set.Summary[0].Resolved)
	assert.True(t, set.Summary[1].Resolved)
	assert.Equal(t, int64(20), set.Rows[0].ReceivedB)
}

func TestBuildExportRows_CentreBound(t *testing.T) {
	f := newFixture(t)
	p := security.CentreBound("clerk", f.centres["Daloa"].ID)

	set, err := f.svc.BuildExportRows(context.Background(), p, february(t), reports.DefaultPinnedItems())
	require.NoError(t, err)

	require.Len(t, set.Rows, 1)
	assert.Equal(t, "Daloa", set.Rows[0].CentreName)
	assert.Equal(t, int64(10), set.Summary[0].Received, "summaries only count visible statements")
	assert.Equal(t, "=SUM(B6:B6)", set.TotalFormulas[0])
	assert.Equal(t, 9, set.SumRow)
}

func TestBuildExportRows_NoCentres(t *testing.T) {
	store := memory.NewStore()
	svc := reports.NewService(store.Reports(), store.Centres(), store.Items())

	set, err := svc.BuildExportRows(context.Background(), security.Unrestricted("a"), period.Global(), reports.DefaultPinnedItems())
	require.NoError(t, err)

	assert.Empty(t, set.Rows)
	assert.Equal(t, 5, set.LastDataRow)
	assert.Equal(t, 6, set.TotalRow)
	assert.Equal(t, "=SUM(B6:B5)", set.TotalFormulas[0])
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	f.svc.WithClock(func() time.Time { return time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC) })

	d, err := f.svc.Dashboard(context.Background(), f.admin)
	require.NoError(t, err)

	assert.Equal(t, 2024, d.Year)
	assert.Equal(t, time.February, d.Month)
	assert.Equal(t, "Février", d.MonthName)
	assert.Equal(t, "88000.00", d.Total.StringFixed(2))

	require.NotNil(t, d.BestCentre)
	assert.Equal(t, "Abidjan", d.BestCentre.CentreName)
	assert.Equal(t, "70000.00", d.BestCentre.Amount.StringFixed(2))

	require.Len(t, d.Items, 2)
	assert.Equal(t, "Viatique", d.Items[0].ItemName)
	assert.Equal(t, int64(42), d.Items[0].Sold)
	assert.Equal(t, "Activités", d.Items[1].ItemName)
	require.NotNil(t, d.TopItem)
	assert.Equal(t, "Viatique", d.TopItem.ItemName)
}

func TestDashboard_EmptyMonth(t *testing.T) {
	f := newFixture(t)
	f.svc.WithClock(func() time.Time { return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) })

	d, err := f.svc.Dashboard(context.Background(), security.CentreBound("clerk", f.centres["Abidjan"].ID))
	require.NoError(t, err)

	assert.True(t, d.Total.IsZero())
	assert.Nil(t, d.BestCentre)
	assert.Nil(t, d.TopItem)
	assert.Empty(t, d.Items)
}
