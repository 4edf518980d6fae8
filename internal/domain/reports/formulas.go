package reports

import "fmt"

// exportColumns are the sheet columns A..L.
const exportColumns = "ABCDEFGHIJKL"

// ExportColumn returns the letter of the 1-based column index.
func ExportColumn(col int) string {
	return exportColumns[col-1 : col]
}

// totalFormulas sums every numeric column B..L over the data rows.
// With no data rows the range is inverted (e.g. B6:B5) and sums to zero.
func totalFormulas(first, last int) []string {
	out := make([]string, 0, len(exportColumns)-1)
	for col := 2; col <= len(exportColumns); col++ {
		out = append(out, sumRange(ExportColumn(col), first, last))
	}
	return out
}

// sumFormula adds the amount columns of both pinned items.
func sumFormula(first, last int) string {
	return fmt.Sprintf("=SUM(F%d:F%d)+SUM(I%d:I%d)", first, last, first, last)
}

func sumRange(col string, first, last int) string {
	return fmt.Sprintf("=SUM(%s%d:%s%d)", col, first, col, last)
}
