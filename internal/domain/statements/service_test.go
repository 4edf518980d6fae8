package statements_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/id"
	"centrebooks/internal/core/period"
	"centrebooks/internal/core/security"
	"centrebooks/internal/core/types"
	"centrebooks/internal/domain"
	"centrebooks/internal/domain/catalogs/centre"
	"centrebooks/internal/domain/catalogs/item"
	"centrebooks/internal/domain/statements"
	"centrebooks/internal/infrastructure/storage/memory"
)

type fixture struct {
	store   *memory.Store
	svc     *statements.Service
	abidjan *centre.Centre
	bouake  *centre.Centre
	viat    *item.Item
	admin   security.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	f := &fixture{
		store:   store,
		abidjan: centre.NewCentre("Abidjan", "Abidjan", ""),
		bouake:  centre.NewCentre("Bouaké", "Bouaké", ""),
		viat:    item.NewItem("VIAT-01", "Viatique", 120, types.MustMoney("1500")),
		admin:   security.Unrestricted("admin"),
	}
	require.NoError(t, store.Centres().Create(ctx, f.abidjan))
	require.NoError(t, store.Centres().Create(ctx, f.bouake))
	require.NoError(t, store.Items().Create(ctx, f.viat))

	f.svc = statements.NewService(store.Statements(), store.Centres(), store.Items(), store.TxManager())
	return f
}

func (f *fixture) input(c *centre.Centre, start, end string) statements.Input {
	return statements.Input{
		CentreID:         c.ID,
		ItemID:           f.viat.ID,
		DateStart:        day(start),
		DateEnd:          day(end),
		QuantityReceived: 40,
		QuantitySold:     30,
	}
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.input(f.abidjan, "2024-02-01", "2024-02-29")
	in.Operator = statements.OperatorOrange
	in.OtherExpenses = types.MustMoney("2500")

	st, err := f.svc.Create(ctx, f.admin, in)
	require.NoError(t, err)

	assert.Equal(t, "1500.00", st.UnitPrice.StringFixed(2), "item default price applies")
	assert.Equal(t, "45000.00", st.SalesAmount.StringFixed(2))
	assert.Equal(t, int64(10), st.QuantityRemaining)
	assert.Equal(t, "450.00", st.WithdrawalFeeAmount.StringFixed(2))
	assert.False(t, st.FeeRateManual)
	assert.False(t, st.CreatedAt.IsZero())

	stored, err := f.svc.GetByID(ctx, f.admin, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Abidjan", stored.CentreName)
	assert.Equal(t, "Viatique", stored.ItemName)
	assert.True(t, st.SalesAmount.Equal(stored.SalesAmount))
}

func TestService_Create_CentreBoundIsPinned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := security.CentreBound("clerk", f.bouake.ID)
	st, err := f.svc.Create(ctx, p, f.input(f.abidjan, "2024-03-01", "2024-03-31"))
	require.NoError(t, err)

	assert.Equal(t, f.bouake.ID, st.CentreID, "centre accounts always file for their own centre")
}

func TestService_Create_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		patch func(*statements.Input)
		field string
	}{
		{"end before start", func(in *statements.Input) { in.DateEnd = day("2024-01-01"); in.DateStart = day("2024-01-31") }, "dateEnd"},
		{"negative sold", func(in *statements.Input) { in.QuantitySold = -1 }, "quantitySold"},
		{"unknown operator", func(in *statements.Input) { in.Operator = "PAYPAL" }, "operator"},
		{"rate above 100", func(in *statements.Input) { in.WithdrawalFeeRate = types.Ptr(types.MustMoney("150")) }, "withdrawalFeeRate"},
		{"missing item", func(in *statements.Input) { in.ItemID = id.ID{} }, "itemId"},
		{"unknown item", func(in *statements.Input) { in.ItemID = id.New() }, "itemId"},
		{"unknown centre", func(in *statements.Input) { in.CentreID = id.New() }, "centreId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input(f.abidjan, "2024-01-01", "2024-01-31")
			tt.patch(&in)

			_, err := f.svc.Create(ctx, f.admin, in)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}

	res, err := f.svc.List(ctx, f.admin, statements.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, res.TotalCount, "rejected saves leave no trace")
}

func TestService_UnknownOperatorListsAllowed(t *testing.T) {
	f := newFixture(t)

	in := f.input(f.abidjan, "2024-02-01", "2024-02-29")
	in.Operator = "PAYPAL"
	_, err := f.svc.Create(context.Background(), f.admin, in)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "PAYPAL", appErr.Details["value"])
	assert.Equal(t, statements.Operators(), appErr.Details["allowed"])
}

func TestService_PeriodCollisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.admin, f.input(f.abidjan, "2024-02-01", "2024-02-29"))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.admin, f.input(f.abidjan, "2024-02-01", "2024-02-29"))
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))

	_, err = f.svc.Create(ctx, f.admin, f.input(f.abidjan, "2024-02-15", "2024-03-15"))
	assert.True(t, apperror.HasCode(err, apperror.CodePeriodOverlap))

	_, err = f.svc.Create(ctx, f.admin, f.input(f.bouake, "2024-02-15", "2024-03-15"))
	assert.NoError(t, err, "other centres are independent")

	_, err = f.svc.Create(ctx, f.admin, f.input(f.abidjan, "2024-03-01", "2024-03-31"))
	assert.NoError(t, err, "adjacent ranges do not overlap")
}

func TestService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.svc.Create(ctx, f.admin, f.input(f.abidjan, "2024-02-01", "2024-02-29"))
	require.NoError(t, err)

	t.Run("resave is idempotent", func(t *testing.T) {
		again, err := f.svc.Update(ctx, f.admin, st.ID, f.input(f.abidjan, "2024-02-01", "2024-02-29"))
		require.NoError(t, err)
		assert.True(t, st.SalesAmount.Equal(again.SalesAmount))
		assert.Equal(t, st.QuantityRemaining, again.QuantityRemaining)
		assert.Equal(t, st.CreatedAt, again.CreatedAt)
	})

	t.Run("revalues on change", func(t *testing.T) {
		in := f.input(f.abidjan, "2024-02-01", "2024-02-29")
		in.QuantitySold = 45
		in.UnitPrice = types.Ptr(types.MustMoney("1000"))

		updated, err := f.svc.Update(ctx, f.admin, st.ID, in)
		require.NoError(t, err)
		assert.Equal(t, "45000.00", updated.SalesAmount.StringFixed(2))
		assert.Equal(t, int64(-5), updated.QuantityRemaining)
	})

	t.Run("may keep its own period", func(t *testing.T) {
		in := f.input(f.abidjan, "2024-02-01", "2024-02-28")
		_, err := f.svc.Update(ctx, f.admin, st.ID, in)
		assert.NoError(t, err)
	})
}

func TestService_CrossCentreIsForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.svc.Create(ctx, f.admin, f.input(f.abidjan, "2024-02-01", "2024-02-29"))
	require.NoError(t, err)

	outsider := security.CentreBound("clerk", f.bouake.ID)

	_, err = f.svc.GetByID(ctx, outsider, st.ID)
	assert.True(t, apperror.IsForbidden(err))

	_, err = f.svc.Update(ctx, outsider, st.ID, f.input(f.bouake, "2024-02-01", "2024-02-29"))
	assert.True(t, apperror.IsForbidden(err))

	err = f.svc.Delete(ctx, outsider, st.ID)
	assert.True(t, apperror.IsForbidden(err))

	res, err := f.svc.List(ctx, outsider, statements.ListFilter{CentreID: &f.abidjan.ID})
	require.NoError(t, err)
	assert.Empty(t, res.Items, "the requested centre filter is overridden by the principal's scope")

	_, err = f.svc.GetByID(ctx, f.admin, st.ID)
	assert.NoError(t, err, "the statement survives the rejected delete")
}

func TestService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, c := range []*centre.Centre{f.bouake, f.abidjan} {
		_, err := f.svc.Create(ctx, f.admin, f.input(c, "2024-01-01", "2024-01-31"))
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, f.admin, f.input(c, "2024-02-01", "2024-02-29"))
		require.NoError(t, err)
	}

	res, err := f.svc.List(ctx, f.admin, statements.ListFilter{})
	require.NoError(t, err)
	require.Len(t, res.Items, 4)

	got := make([]string, 0, len(res.Items))
	for _, st := range res.Items {
		got = append(got, st.DateEnd.Format("01")+" "+st.CentreName)
	}
	assert.Equal(t, []string{"02 Abidjan", "02 Bouaké", "01 Abidjan", "01 Bouaké"}, got)

	feb, _ := period.Month(2024, time.February)
	res, err = f.svc.List(ctx, f.admin, statements.ListFilter{Range: &feb, Page: domain.Page{Limit: 1}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.TotalCount)
	assert.Len(t, res.Items, 1)
}

func TestService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var deleted []id.ID
	f.svc.Hooks().OnAfterDelete(func(ctx context.Context, st *statements.Statement) error {
		deleted = append(deleted, st.ID)
		return nil
	})

	p := security.CentreBound("clerk", f.abidjan.ID)
	st, err := f.svc.Create(ctx, p, f.input(f.abidjan, "2024-02-01", "2024-02-29"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, p, st.ID))
	assert.Equal(t, []id.ID{st.ID}, deleted)

	_, err = f.svc.GetByID(ctx, p, st.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_BeforeCreateHookRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.svc.Hooks().OnBeforeCreate(func(ctx context.Context, st *statements.Statement) error {
		return errors.New("refused")
	})

	_, err := f.svc.Create(ctx, f.admin, f.input(f.abidjan, "2024-02-01", "2024-02-29"))
	require.Error(t, err)

	res, err := f.svc.List(ctx, f.admin, statements.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, res.TotalCount)
}

func TestService_AnonymousIsUnauthorized(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.List(context.Background(), security.Principal{}, statements.ListFilter{})
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
}
