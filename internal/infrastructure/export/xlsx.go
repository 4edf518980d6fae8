// Package export renders report data into downloadable documents.
package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"centrebooks/internal/domain/reports"
)

// XLSXContentType is the MIME type of RenderExportXLSX output.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	colorSummaryA = "C4D79B"
	colorSummaryB = "FFF2CC"
	colorBlue     = "9BC2E6"
	colorGreen    = "C6E0B4"
	colorYellow   = "FFFF00"
	colorRed      = "FF0000"
	colorWhite    = "FFFFFF"
)

var columnWidths = map[string]float64{
	"A": 18, "B": 8, "C": 8, "D": 10, "E": 8, "F": 12,
	"G": 10, "H": 8, "I": 12, "J": 10, "K": 10, "L": 12,
}

// header labels and the fill of their column; the first match wins, so both
// PU and MTANT columns are blue.
var (
	blueHeaders  = []string{"VIAT", "VEN VIAT", "PU", "MTANT", "RES VIA"}
	greenHeaders = []string{"ACT", "VENT ACT", "RES ACT"}
)

type sheetStyles struct {
	summaryLabel [2]int
	summaryValue [2]int
	headerPlain  int
	headerBlue   int
	headerGreen  int
	headerYellow int
	data         int
	totalLabel   int
	totalValue   int
}

// RenderExportXLSX writes the two-item sheet: summaries in rows 2-3, headers
// in row 5, one row per centre from row 6, then the TOTAL and SOMME rows as
// live formulas.
func RenderExportXLSX(set *reports.ExportRowSet, sheetTitle string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetTitle
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	st, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, sheet: sheet}

	summaryRows := [2]int{reports.ExportSummaryRowA, reports.ExportSummaryRowB}
	for i, s := range set.Summary {
		row := summaryRows[i]
		w.value("B", row, s.Label, st.summaryLabel[i])
		w.value("C", row, s.Received, st.summaryValue[i])
		w.value("D", row, s.Sold, st.summaryValue[i])
		w.value("E", row, s.Remaining, st.summaryValue[i])
	}

	for i, label := range set.Headers {
		w.value(reports.ExportColumn(i+1), reports.ExportHeaderRow, label, st.headerFor(label))
	}

	for i, r := range set.Rows {
		row := set.FirstDataRow + i
		w.value("A", row, r.CentreName, 0)
		for j, v := range r.Values() {
			w.value(reports.ExportColumn(j+2), row, cellValue(v), st.data)
		}
	}

	w.value("A", set.TotalRow, "TOTAL", st.totalLabel)
	for j, formula := range set.TotalFormulas {
		w.formula(reports.ExportColumn(j+2), set.TotalRow, formula, st.totalValue)
	}

	w.value("E", set.SumRow, "SOMME", st.totalLabel)
	w.formula("F", set.SumRow, set.SumFormula, st.totalValue)

	for col, width := range columnWidths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return nil, fmt.Errorf("set width of %s: %w", col, err)
		}
	}

	if w.err != nil {
		return nil, w.err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// cellValue turns money into a number cell; excelize would store a decimal as text.
func cellValue(v any) any {
	if d, ok := v.(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return v
}

// sheetWriter keeps the first error so the layout code reads straight through.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) value(col string, row int, v any, style int) {
	if w.err != nil {
		return
	}
	cell := fmt.Sprintf("%s%d", col, row)
	if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
		w.err = fmt.Errorf("set %s: %w", cell, err)
		return
	}
	w.style(cell, style)
}

func (w *sheetWriter) formula(col string, row int, formula string, style int) {
	if w.err != nil {
		return
	}
	cell := fmt.Sprintf("%s%d", col, row)
	if err := w.f.SetCellFormula(w.sheet, cell, strings.TrimPrefix(formula, "=")); err != nil {
		w.err = fmt.Errorf("set formula %s: %w", cell, err)
		return
	}
	w.style(cell, style)
}

func (w *sheetWriter) style(cell string, style int) {
	if style == 0 {
		return
	}
	if err := w.f.SetCellStyle(w.sheet, cell, cell, style); err != nil {
		w.err = fmt.Errorf("style %s: %w", cell, err)
	}
}

func newSheetStyles(f *excelize.File) (*sheetStyles, error) {
	var st sheetStyles
	var firstErr error

	mk := func(fill string, font *excelize.Font, horizontal string) int {
		if firstErr != nil {
			return 0
		}
		s := &excelize.Style{
			Font:      font,
			Alignment: &excelize.Alignment{Horizontal: horizontal, Vertical: "center"},
		}
		if fill != "" {
			s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}}
		}
		id, err := f.NewStyle(s)
		if err != nil {
			firstErr = fmt.Errorf("create style: %w", err)
		}
		return id
	}

	bold := &excelize.Font{Bold: true}
	whiteBold := &excelize.Font{Bold: true, Color: colorWhite}

	st.summaryLabel[0] = mk(colorSummaryA, bold, "center")
	st.summaryValue[0] = mk(colorSummaryA, nil, "right")
	st.summaryLabel[1] = mk(colorSummaryB, bold, "center")
	st.summaryValue[1] = mk(colorSummaryB, nil, "right")
	st.headerPlain = mk("", bold, "center")
	st.headerBlue = mk(colorBlue, bold, "center")
	st.headerGreen = mk(colorGreen, bold, "center")
	st.headerYellow = mk(colorYellow, bold, "center")
	st.data = mk("", nil, "right")
	st.totalLabel = mk(colorRed, whiteBold, "center")
	st.totalValue = mk(colorRed, whiteBold, "right")

	if firstErr != nil {
		return nil, firstErr
	}
	return &st, nil
}

func (st *sheetStyles) headerFor(label string) int {
	switch {
	case contains(blueHeaders, label):
		return st.headerBlue
	case contains(greenHeaders, label):
		return st.headerGreen
	case label == "DEPENSES":
		return st.headerYellow
	default:
		return st.headerPlain
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
