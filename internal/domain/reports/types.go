// Package reports aggregates statements into Centre x Item matrices, the
// two-item export layout and the monthly dashboard.
package reports

import (
	"time"

	"centrebooks/internal/core/id"
	"centrebooks/internal/core/period"
	"centrebooks/internal/core/types"
	"centrebooks/internal/domain/catalogs/item"
)

// --- Matrix ---

// ItemColumn is one item of the matrix header.
type ItemColumn struct {
	ItemID id.ID  `json:"itemId"`
	Code   string `json:"code"`
	Name   string `json:"name"`
}

// Cell holds the sums for one (centre, item) pair. Absent statements yield zeros.
type Cell struct {
	ItemID    id.ID       `json:"itemId"`
	Received  int64       `json:"received"`
	Sold      int64       `json:"sold"`
	Remaining int64       `json:"remaining"`
	Amount    types.Money `json:"amount"`
}

// Row is one centre with a cell per item, in the order of Matrix.Items.
type Row struct {
	CentreID   id.ID  `json:"centreId"`
	CentreName string `json:"centreName"`
	Cells      []Cell `json:"cells"`
}

// Matrix is the Centre x Item report over Range.
type Matrix struct {
	Range period.Range `json:"-"`
	Items []ItemColumn `json:"items"`
	Rows  []Row        `json:"rows"`
	// ColumnCount is 1 + 4 x len(Items), for tabular rendering.
	ColumnCount int `json:"colspan"`
}

// ColumnCount returns the table width for n items.
func ColumnCount(n int) int {
	return 1 + n*4
}

// --- Aggregation input ---

// TotalsFilter selects the statements to sum.
type TotalsFilter struct {
	// Range matches on the statement end date.
	Range    period.Range
	CentreID *id.ID
	// ItemIDs restricts the items; empty means all.
	ItemIDs []id.ID
}

// Totals is the sum of the statements of one centre and one item.
type Totals struct {
	CentreID  id.ID       `db:"centre_id"`
	ItemID    id.ID       `db:"item_id"`
	Received  int64       `db:"received"`
	Sold      int64       `db:"sold"`
	Remaining int64       `db:"remaining"`
	Amount    types.Money `db:"amount"`
	Expenses  types.Money `db:"expenses"`
}

type pairKey struct {
	centre id.ID
	item   id.ID
}

func indexTotals(rows []Totals) map[pairKey]Totals {
	out := make(map[pairKey]Totals, len(rows))
	for _, t := range rows {
		k := pairKey{t.CentreID, t.ItemID}
		if prev, ok := out[k]; ok {
			t.Received += prev.Received
			t.Sold += prev.Sold
			t.Remaining += prev.Remaining
			t.Amount = t.Amount.Add(prev.Amount)
			t.Expenses = t.Expenses.Add(prev.Expenses)
		}
		out[k] = t
	}
	return out
}

// --- Two-item export ---

// PinnedItems names the two items of the export layout.
type PinnedItems [2]item.PinnedRef

// DefaultPinnedItems returns the catalogue's two flagship titles.
func DefaultPinnedItems() PinnedItems {
	return PinnedItems{
		{Name: "Viatique", CodeFragment: "VIAT", Label: "VIATIQUE"},
		{Name: "Activités", CodeFragment: "ACT", Label: "ACTIVITE"},
	}
}

// ExportHeaders are the column titles of header row 5, columns A..L.
var ExportHeaders = []string{
	"CENTRE", "VIAT", "ACT",
	"VEN VIAT", "PU", "MTANT",
	"VENT ACT", "PU", "MTANT",
	"RES VIA", "RES ACT", "DEPENSES",
}

// Fixed rows of the export sheet.
const (
	ExportSummaryRowA = 2
	ExportSummaryRowB = 3
	ExportHeaderRow   = 5
	ExportFirstRow    = 6
)

// PinnedSummary is the global line of one pinned item (rows 2 and 3).
type PinnedSummary struct {
	Label    string `json:"label"`
	Resolved bool   `json:"resolved"`
	// UnitPrice is the item's default price, shown in every data row.
	UnitPrice types.Money `json:"unitPrice"`
	Received  int64       `json:"received"`
	Sold      int64       `json:"sold"`
	Remaining int64       `json:"remaining"`
}

// ExportRow is one centre in columns A..L.
type ExportRow struct {
	CentreName string      `json:"centreName"`
	ReceivedA  int64       `json:"receivedA"`
	ReceivedB  int64       `json:"receivedB"`
	SoldA      int64       `json:"soldA"`
	PriceA     types.Money `json:"priceA"`
	AmountA    types.Money `json:"amountA"`
	SoldB      int64       `json:"soldB"`
	PriceB     types.Money `json:"priceB"`
	AmountB    types.Money `json:"amountB"`
	RemainingA int64       `json:"remainingA"`
	RemainingB int64       `json:"remainingB"`
	Expenses   types.Money `json:"expenses"`
}

// Values returns columns B..L in order.
func (r ExportRow) Values() []any {
	return []any{
		r.ReceivedA, r.ReceivedB,
		r.SoldA, r.PriceA, r.AmountA,
		r.SoldB, r.PriceB, r.AmountB,
		r.RemainingA, r.RemainingB,
		r.Expenses,
	}
}

// ExportRowSet is the complete two-item sheet: summaries, header, data rows,
// and the total and sum rows as spreadsheet formulas.
type ExportRowSet struct {
	Summary [2]PinnedSummary `json:"summary"`
	Headers []string         `json:"headers"`
	Rows    []ExportRow      `json:"rows"`

	FirstDataRow int `json:"firstDataRow"`
	LastDataRow  int `json:"lastDataRow"`
	TotalRow     int `json:"totalRow"`
	SumRow       int `json:"sumRow"`

	// TotalFormulas holds columns B..L of the total row.
	TotalFormulas []string `json:"totalFormulas"`
	// SumFormula goes in column F of the sum row, next to the SOMME label in E.
	SumFormula string `json:"sumFormula"`
}

// --- Dashboard ---

// CentreSales is the sales amount of one centre.
type CentreSales struct {
	CentreID   id.ID       `json:"centreId"`
	CentreName string      `json:"centreName"`
	Amount     types.Money `json:"amount"`
}

// ItemSales is what one item sold.
type ItemSales struct {
	ItemID   id.ID       `json:"itemId"`
	ItemName string      `json:"itemName"`
	Sold     int64       `json:"sold"`
	Amount   types.Money `json:"amount"`
}

// Dashboard summarizes the current month.
type Dashboard struct {
	Year       int          `json:"year"`
	Month      time.Month   `json:"month"`
	MonthName  string       `json:"monthName"`
	Total      types.Money  `json:"total"`
	BestCentre *CentreSales `json:"bestCentre,omitempty"`
	TopItem    *ItemSales   `json:"topItem,omitempty"`
	// Items are ordered by quantity sold, highest first.
	Items []ItemSales `json:"items"`
}

var monthNames = [...]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// MonthName returns the French month name used in report titles.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}
