package reports

import (
	"context"
)

// Repository defines report data access interface.
type Repository interface {
	// SumByCentreItem sums the statements matching filter, one entry per
	// (centre, item) pair that has at least one statement.
	SumByCentreItem(ctx context.Context, filter TotalsFilter) ([]Totals, error)
}
