package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWeek(t *testing.T) {
	tests := []struct {
		year, week int
		start, end string
	}{
		{2024, 1, "2024-01-01", "2024-01-07"},
		{2021, 1, "2021-01-04", "2021-01-10"},
		{2020, 53, "2020-12-28", "2021-01-03"},
		{2024, 20, "2024-05-13", "2024-05-19"},
	}
	for _, tt := range tests {
		rng, err := Week(tt.year, tt.week)
		require.NoError(t, err)
		assert.Equal(t, d(tt.start), rng.Start, "week %d/%d", tt.week, tt.year)
		assert.Equal(t, d(tt.end), rng.End, "week %d/%d", tt.week, tt.year)
		assert.Equal(t, time.Monday, rng.Start.Weekday())
		assert.Equal(t, time.Sunday, rng.End.Weekday())
	}

	_, err := Week(2021, 53)
	assert.Error(t, err)
	_, err = Week(2024, 0)
	assert.Error(t, err)
}

func TestMonth(t *testing.T) {
	rng, err := Month(2024, time.February)
	require.NoError(t, err)
	assert.Equal(t, d("2024-02-01"), rng.Start)
	assert.Equal(t, d("2024-02-29"), rng.End)

	rng, err = Month(2023, time.February)
	require.NoError(t, err)
	assert.Equal(t, d("2023-02-28"), rng.End)

	rng, err = Month(2023, time.December)
	require.NoError(t, err)
	assert.Equal(t, d("2023-12-31"), rng.End)

	_, err = Month(2023, 13)
	assert.Error(t, err)
}

func TestQuarter(t *testing.T) {
	tests := []struct {
		quarter    int
		start, end string
	}{
		{1, "2024-01-01", "2024-03-31"},
		{2, "2024-04-01", "2024-06-30"},
		{3, "2024-07-01", "2024-09-30"},
		{4, "2024-10-01", "2024-12-31"},
		{0, "2024-01-01", "2024-03-31"},
		{7, "2024-10-01", "2024-12-31"},
	}
	for _, tt := range tests {
		rng := Quarter(2024, tt.quarter)
		assert.Equal(t, d(tt.start), rng.Start, "quarter %d", tt.quarter)
		assert.Equal(t, d(tt.end), rng.End, "quarter %d", tt.quarter)
	}
}

func TestYearAndGlobal(t *testing.T) {
	rng := Year(2023)
	assert.Equal(t, d("2023-01-01"), rng.Start)
	assert.Equal(t, d("2023-12-31"), rng.End)

	g := Global()
	assert.True(t, g.Contains(d("1900-01-01")))
	assert.True(t, g.Contains(d("2999-12-31")))
}

func TestRange_Contains(t *testing.T) {
	rng, _ := Month(2024, time.March)
	assert.True(t, rng.Contains(d("2024-03-01")))
	assert.True(t, rng.Contains(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, rng.Contains(d("2024-04-01")))
	assert.False(t, rng.Contains(d("2024-02-29")))
}

func TestRange_Overlaps(t *testing.T) {
	rng, _ := Month(2024, time.March)
	assert.True(t, rng.Overlaps(d("2024-02-20"), d("2024-03-01")))
	assert.True(t, rng.Overlaps(d("2024-03-31"), d("2024-04-05")))
	assert.False(t, rng.Overlaps(d("2024-04-01"), d("2024-04-05")))
}

func TestQuarterOf(t *testing.T) {
	assert.Equal(t, 1, QuarterOf(d("2024-03-31")))
	assert.Equal(t, 2, QuarterOf(d("2024-04-01")))
	assert.Equal(t, 4, QuarterOf(d("2024-12-31")))
}

func TestResolver(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC) }
	r := NewResolver(now)

	t.Run("week defaults to current iso week", func(t *testing.T) {
		s := r.Week(Params{})
		assert.Equal(t, 2024, s.Year)
		assert.Equal(t, 20, s.Week)
		assert.Equal(t, d("2024-05-13"), s.Range.Start)
	})

	t.Run("week out of range falls back", func(t *testing.T) {
		s := r.Week(Params{Year: "2024", Week: "60"})
		assert.Equal(t, 20, s.Week)
	})

	t.Run("explicit week", func(t *testing.T) {
		s := r.Week(Params{Year: "2024", Week: "1"})
		assert.Equal(t, d("2024-01-01"), s.Range.Start)
		assert.Equal(t, d("2024-01-07"), s.Range.End)
	})

	t.Run("unparseable month falls back", func(t *testing.T) {
		s := r.Month(Params{Year: "2024", Month: "abc"})
		assert.Equal(t, 5, s.Month)
		assert.Equal(t, d("2024-05-31"), s.Range.End)
	})

	t.Run("explicit month", func(t *testing.T) {
		s := r.Month(Params{Year: "2024", Month: "2"})
		assert.Equal(t, d("2024-02-29"), s.Range.End)
		assert.Equal(t, "2024-02", s.SheetTitle())
		assert.Equal(t, "mensuel_2024_02", s.FileStem())
		assert.Equal(t, "rapport_mensuel_via_act_2024_02.xlsx", s.FileName("via_act", "xlsx"))
		assert.Equal(t, "rapport_mensuel_2024_02.pdf", s.FileName("", "pdf"))
	})

	t.Run("quarter clamps and defaults", func(t *testing.T) {
		assert.Equal(t, 4, r.Quarter(Params{Quarter: "9"}).Quarter)
		assert.Equal(t, 1, r.Quarter(Params{Quarter: "-3"}).Quarter)
		assert.Equal(t, 2, r.Quarter(Params{}).Quarter)
		assert.Equal(t, 2, r.Quarter(Params{Quarter: "x"}).Quarter)
		assert.Equal(t, "T2-2024", r.Quarter(Params{}).SheetTitle())
	})

	t.Run("year", func(t *testing.T) {
		assert.Equal(t, 2024, r.Year(Params{Year: "oops"}).Year)
		s := r.Year(Params{Year: "2022"})
		assert.Equal(t, d("2022-01-01"), s.Range.Start)
		assert.Equal(t, "2022", s.SheetTitle())
	})

	t.Run("global", func(t *testing.T) {
		s := r.Resolve(KindGlobal, Params{Year: "2022"})
		assert.True(t, s.Range.Unbounded)
		assert.Equal(t, "Global", s.SheetTitle())
		assert.Equal(t, "rapport_global_via_act.xlsx", s.FileName("via_act", "xlsx"))
	})
}
