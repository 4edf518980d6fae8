package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Params holds the raw, optional query parameters of a report request.
type Params struct {
	Year    string
	Week    string
	Month   string
	Quarter string
}

// Selection is a resolved report window plus the numbers it was built from.
type Selection struct {
	Kind    Kind
	Year    int
	Week    int
	Month   int
	Quarter int
	Range   Range
}

// SheetTitle returns the worksheet name used for exports.
func (s Selection) SheetTitle() string {
	switch s.Kind {
	case KindWeek:
		return fmt.Sprintf("S%02d-%d", s.Week, s.Year)
	case KindMonth:
		return fmt.Sprintf("%d-%02d", s.Year, s.Month)
	case KindQuarter:
		return fmt.Sprintf("T%d-%d", s.Quarter, s.Year)
	case KindYear:
		return strconv.Itoa(s.Year)
	default:
		return "Global"
	}
}

// FileStem returns the period part of export file names, e.g. "mensuel_2024_02".
func (s Selection) FileStem() string {
	switch s.Kind {
	case KindWeek:
		return fmt.Sprintf("hebdomadaire_%d_S%02d", s.Year, s.Week)
	case KindMonth:
		return fmt.Sprintf("mensuel_%d_%02d", s.Year, s.Month)
	case KindQuarter:
		return fmt.Sprintf("trimestriel_%d_T%d", s.Year, s.Quarter)
	case KindYear:
		return fmt.Sprintf("annuel_%d", s.Year)
	default:
		return "global"
	}
}

// FileName builds an export file name such as "rapport_mensuel_via_act_2024_02.xlsx".
// tag goes right after the period kind and may be empty.
func (s Selection) FileName(tag, ext string) string {
	kind, rest, _ := strings.Cut(s.FileStem(), "_")
	parts := []string{"rapport", kind}
	if tag != "" {
		parts = append(parts, tag)
	}
	if rest != "" {
		parts = append(parts, rest)
	}
	return strings.Join(parts, "_") + "." + ext
}

// Resolver turns optional query strings into windows. Any parameter that is
// missing or does not parse falls back to the value of the current date.
type Resolver struct {
	now func() time.Time
}

// NewResolver creates a resolver; a nil clock means time.Now.
func NewResolver(now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{now: now}
}

// Resolve dispatches on kind.
func (r *Resolver) Resolve(kind Kind, p Params) Selection {
	switch kind {
	case KindWeek:
		return r.Week(p)
	case KindMonth:
		return r.Month(p)
	case KindQuarter:
		return r.Quarter(p)
	case KindYear:
		return r.Year(p)
	default:
		return Selection{Kind: KindGlobal, Range: Global()}
	}
}

// Week resolves an ISO week. Weeks outside the year's range fall back to the current week.
func (r *Resolver) Week(p Params) Selection {
	isoYear, isoWeek := r.now().ISOWeek()
	year := parseInt(p.Year, isoYear, validYear)
	week := parseInt(p.Week, isoWeek, func(w int) bool { return w >= 1 && w <= WeeksInYear(year) })

	rng, err := Week(year, week)
	if err != nil {
		// current week number may not exist in a requested 52-week year
		year, week = isoYear, isoWeek
		rng, _ = Week(year, week)
	}
	return Selection{Kind: KindWeek, Year: year, Week: week, Range: rng}
}

// Month resolves a calendar month.
func (r *Resolver) Month(p Params) Selection {
	now := r.now()
	year := parseInt(p.Year, now.Year(), validYear)
	month := parseInt(p.Month, int(now.Month()), func(m int) bool { return m >= 1 && m <= 12 })

	rng, _ := Month(year, time.Month(month))
	return Selection{Kind: KindMonth, Year: year, Month: month, Range: rng}
}

// Quarter resolves a quarter. Parsed values are clamped into 1..4.
func (r *Resolver) Quarter(p Params) Selection {
	now := r.now()
	year := parseInt(p.Year, now.Year(), validYear)
	quarter := ClampQuarter(parseInt(p.Quarter, QuarterOf(now), nil))

	return Selection{Kind: KindQuarter, Year: year, Quarter: quarter, Range: Quarter(year, quarter)}
}

// Year resolves a calendar year.
func (r *Resolver) Year(p Params) Selection {
	year := parseInt(p.Year, r.now().Year(), validYear)
	return Selection{Kind: KindYear, Year: year, Range: Year(year)}
}

func validYear(y int) bool {
	return y >= 1 && y <= 9999
}

func parseInt(raw string, fallback int, valid func(int) bool) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if valid != nil && !valid(v) {
		return fallback
	}
	return v
}
