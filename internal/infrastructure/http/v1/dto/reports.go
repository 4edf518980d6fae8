package dto

import (
	"time"

	"centrebooks/internal/core/period"
	"centrebooks/internal/domain/reports"
)

// PeriodQuery holds the optional period parameters of report endpoints.
// Values that are missing or do not parse fall back to the current date.
type PeriodQuery struct {
	Year    string `form:"year"`
	Week    string `form:"week"`
	Month   string `form:"month"`
	Quarter string `form:"quarter"`
}

// ToParams converts to resolver parameters.
func (q PeriodQuery) ToParams() period.Params {
	return period.Params{Year: q.Year, Week: q.Week, Month: q.Month, Quarter: q.Quarter}
}

// PeriodResponse describes the resolved window.
type PeriodResponse struct {
	Kind    string `json:"kind"`
	Year    int    `json:"year,omitempty"`
	Week    int    `json:"week,omitempty"`
	Month   int    `json:"month,omitempty"`
	Quarter int    `json:"quarter,omitempty"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
	Label   string `json:"label"`
}

// FromSelection creates response from a resolved selection.
func FromSelection(s period.Selection) PeriodResponse {
	resp := PeriodResponse{
		Kind:    string(s.Kind),
		Year:    s.Year,
		Week:    s.Week,
		Month:   s.Month,
		Quarter: s.Quarter,
		Label:   s.SheetTitle(),
	}
	if !s.Range.Unbounded {
		resp.Start = s.Range.Start.Format(time.DateOnly)
		resp.End = s.Range.End.Format(time.DateOnly)
	}
	return resp
}

// CellResponse is one centre x item cell.
type CellResponse struct {
	ItemID    string `json:"itemId"`
	Received  int64  `json:"received"`
	Sold      int64  `json:"sold"`
	Remaining int64  `json:"remaining"`
	Amount    string `json:"amount"`
}

// RowResponse is one centre line.
type RowResponse struct {
	CentreID   string         `json:"centreId"`
	CentreName string         `json:"centreName"`
	Cells      []CellResponse `json:"cells"`
}

// ItemColumnResponse is one item column group.
type ItemColumnResponse struct {
	ItemID string `json:"itemId"`
	Code   string `json:"code"`
	Name   string `json:"name"`
}

// ReportResponse is the Centre x Item matrix of a period.
type ReportResponse struct {
	Period  PeriodResponse       `json:"period"`
	Items   []ItemColumnResponse `json:"items"`
	Rows    []RowResponse        `json:"rows"`
	Colspan int                  `json:"colspan"`
}

// FromMatrix creates response from a domain matrix.
func FromMatrix(s period.Selection, m *reports.Matrix) ReportResponse {
	resp := ReportResponse{
		Period:  FromSelection(s),
		Items:   make([]ItemColumnResponse, len(m.Items)),
		Rows:    make([]RowResponse, len(m.Rows)),
		Colspan: m.ColumnCount,
	}
	for i, it := range m.Items {
		resp.Items[i] = ItemColumnResponse{ItemID: it.ItemID.String(), Code: it.Code, Name: it.Name}
	}
	for i, row := range m.Rows {
		cells := make([]CellResponse, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = CellResponse{
				ItemID:    c.ItemID.String(),
				Received:  c.Received,
				Sold:      c.Sold,
				Remaining: c.Remaining,
				Amount:    c.Amount.StringFixed(2),
			}
		}
		resp.Rows[i] = RowResponse{CentreID: row.CentreID.String(), CentreName: row.CentreName, Cells: cells}
	}
	return resp
}

// --- Dashboard ---

// SalesResponse is one ranked line of the dashboard.
type SalesResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Sold   int64  `json:"sold,omitempty"`
	Amount string `json:"amount"`
}

// DashboardResponse summarizes the current month.
type DashboardResponse struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	MonthName  string          `json:"monthName"`
	Total      string          `json:"total"`
	BestCentre *SalesResponse  `json:"bestCentre,omitempty"`
	TopItem    *SalesResponse  `json:"topItem,omitempty"`
	Items      []SalesResponse `json:"items"`
}

// FromDashboard creates response from the domain dashboard.
func FromDashboard(d *reports.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		Year:      d.Year,
		Month:     int(d.Month),
		MonthName: d.MonthName,
		Total:     d.Total.StringFixed(2),
		Items:     make([]SalesResponse, len(d.Items)),
	}
	if d.BestCentre != nil {
		resp.BestCentre = &SalesResponse{
			ID:     d.BestCentre.CentreID.String(),
			Name:   d.BestCentre.CentreName,
			Amount: d.BestCentre.Amount.StringFixed(2),
		}
	}
	for i, it := range d.Items {
		resp.Items[i] = fromItemSales(it)
	}
	if d.TopItem != nil {
		top := fromItemSales(*d.TopItem)
		resp.TopItem = &top
	}
	return resp
}

func fromItemSales(it reports.ItemSales) SalesResponse {
	return SalesResponse{
		ID:     it.ItemID.String(),
		Name:   it.ItemName,
		Sold:   it.Sold,
		Amount: it.Amount.StringFixed(2),
	}
}
