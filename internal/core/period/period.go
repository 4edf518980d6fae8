// Package period derives the inclusive date windows reports are built over.
//
// All boundaries are calendar dates at midnight UTC. A statement belongs to a
// window when its end date falls inside it.
package period

import (
	"fmt"
	"time"
)

// Kind identifies the granularity of a window.
type Kind string

const (
	KindWeek    Kind = "week"
	KindMonth   Kind = "month"
	KindQuarter Kind = "quarter"
	KindYear    Kind = "year"
	KindGlobal  Kind = "global"
)

// Range is an inclusive date window. An unbounded range matches every date.
type Range struct {
	Start     time.Time
	End       time.Time
	Unbounded bool
}

// Contains reports whether day falls inside the window, bounds included.
func (r Range) Contains(day time.Time) bool {
	if r.Unbounded {
		return true
	}
	d := Date(day.Year(), day.Month(), day.Day())
	return !d.Before(r.Start) && !d.After(r.End)
}

// Overlaps reports whether [start, end] intersects r.
func (r Range) Overlaps(start, end time.Time) bool {
	if r.Unbounded {
		return true
	}
	return !end.Before(r.Start) && !start.After(r.End)
}

func (r Range) String() string {
	if r.Unbounded {
		return "global"
	}
	return r.Start.Format(time.DateOnly) + ".." + r.End.Format(time.DateOnly)
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time of day, keeping the calendar date as seen in t's location.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// WeeksInYear returns the number of ISO weeks of year (52 or 53).
func WeeksInYear(year int) int {
	_, w := Date(year, time.December, 28).ISOWeek()
	return w
}

// Week returns Monday..Sunday of ISO week of year.
func Week(year, week int) (Range, error) {
	if week < 1 || week > WeeksInYear(year) {
		return Range{}, fmt.Errorf("iso week %d out of range for %d", week, year)
	}
	jan4 := Date(year, time.January, 4)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset+(week-1)*7)
	return Range{Start: monday, End: monday.AddDate(0, 0, 6)}, nil
}

// Month returns the first..last day of month.
func Month(year int, month time.Month) (Range, error) {
	if month < time.January || month > time.December {
		return Range{}, fmt.Errorf("month %d out of range", month)
	}
	start := Date(year, month, 1)
	return Range{Start: start, End: start.AddDate(0, 1, -1)}, nil
}

// ClampQuarter forces q into 1..4.
func ClampQuarter(q int) int {
	if q < 1 {
		return 1
	}
	if q > 4 {
		return 4
	}
	return q
}

// Quarter returns the first day of the quarter's first month through the last
// day of its third month. Out-of-range quarters are clamped.
func Quarter(year, quarter int) Range {
	q := ClampQuarter(quarter)
	start := Date(year, time.Month(3*(q-1)+1), 1)
	return Range{Start: start, End: start.AddDate(0, 3, -1)}
}

// QuarterOf returns the quarter (1..4) containing day.
func QuarterOf(day time.Time) int {
	return (int(day.Month())-1)/3 + 1
}

// Year returns January 1..December 31.
func Year(year int) Range {
	return Range{Start: Date(year, time.January, 1), End: Date(year, time.December, 31)}
}

// Global returns the unbounded window.
func Global() Range {
	return Range{Unbounded: true}
}
