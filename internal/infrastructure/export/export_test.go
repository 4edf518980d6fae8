package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"centrebooks/internal/core/id"
	"centrebooks/internal/core/types"
	"centrebooks/internal/domain/reports"
)

func sampleRowSet() *reports.ExportRowSet {
	row := func(name string, recv int64, amount string) reports.ExportRow {
		return reports.ExportRow{
			CentreName: name,
			ReceivedA:  recv,
			SoldA:      recv / 2,
			PriceA:     types.MustMoney("1500"),
			AmountA:    types.MustMoney(amount),
			PriceB:     types.MustMoney("1000"),
			AmountB:    types.Zero(),
			Expenses:   types.MustMoney("250.50"),
		}
	}
	return &reports.ExportRowSet{
		Summary: [2]reports.PinnedSummary{
			{Label: "VIATIQUE", Resolved: true, Received: 100, Sold: 60, Remaining: 40},
			{Label: "ACTIVITE", Resolved: true, Received: 20, Sold: 25, Remaining: -5},
		},
		Headers: reports.ExportHeaders,
		Rows: []reports.ExportRow{
			row("Abidjan", 40, "30000"),
			row("Bouaké", 30, "22500"),
			row("Daloa", 20, "15000"),
			row("Man", 10, "7500"),
		},
		FirstDataRow: 6,
		LastDataRow:  9,
		TotalRow:     10,
		SumRow:       12,
		TotalFormulas: []string{
			"=SUM(B6:B9)", "=SUM(C6:C9)", "=SUM(D6:D9)", "=SUM(E6:E9)", "=SUM(F6:F9)", "=SUM(G6:G9)",
			"=SUM(H6:H9)", "=SUM(I6:I9)", "=SUM(J6:J9)", "=SUM(K6:K9)", "=SUM(L6:L9)",
		},
		SumFormula: "=SUM(F6:F9)+SUM(I6:I9)",
	}
}

func TestRenderExportXLSX(t *testing.T) {
	data, err := RenderExportXLSX(sampleRowSet(), "2024-02")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	assert.Equal(t, "2024-02", sheet)

	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}
	formula := func(cell string) string {
		v, err := f.GetCellFormula(sheet, cell)
		require.NoError(t, err)
		return v
	}

	t.Run("summary rows", func(t *testing.T) {
		assert.Equal(t, "VIATIQUE", get("B2"))
		assert.Equal(t, "100", get("C2"))
		assert.Equal(t, "60", get("D2"))
		assert.Equal(t, "40", get("E2"))
		assert.Equal(t, "ACTIVITE", get("B3"))
		assert.Equal(t, "-5", get("E3"))
	})

	t.Run("header row", func(t *testing.T) {
		got := []string{}
		for col := 1; col <= 12; col++ {
			got = append(got, get(reports.ExportColumn(col)+"5"))
		}
		assert.Equal(t, reports.ExportHeaders, got)
	})

	t.Run("data rows", func(t *testing.T) {
		assert.Equal(t, "Abidjan", get("A6"))
		assert.Equal(t, "40", get("B6"))
		assert.Equal(t, "1500", get("E6"))
		assert.Equal(t, "30000", get("F6"))
		assert.Equal(t, "250.5", get("L6"))
		assert.Equal(t, "Man", get("A9"))
	})

	t.Run("total and sum rows are formulas", func(t *testing.T) {
		assert.Equal(t, "TOTAL", get("A10"))
		assert.Contains(t, formula("B10"), "SUM(B6:B9)")
		assert.Contains(t, formula("F10"), "SUM(F6:F9)")
		assert.Contains(t, formula("L10"), "SUM(L6:L9)")

		assert.Equal(t, "SOMME", get("E12"))
		assert.Contains(t, formula("F12"), "SUM(F6:F9)+SUM(I6:I9)")
	})

	t.Run("column widths", func(t *testing.T) {
		w, err := f.GetColWidth(sheet, "A")
		require.NoError(t, err)
		assert.InDelta(t, 18, w, 0.01)

		w, err = f.GetColWidth(sheet, "I")
		require.NoError(t, err)
		assert.InDelta(t, 12, w, 0.01)
	})
}

func TestRenderExportXLSX_NoCentres(t *testing.T) {
	set := &reports.ExportRowSet{
		Headers:       reports.ExportHeaders,
		FirstDataRow:  6,
		LastDataRow:   5,
		TotalRow:      6,
		SumRow:        8,
		TotalFormulas: []string{"=SUM(B6:B5)"},
		SumFormula:    "=SUM(F6:F5)+SUM(I6:I5)",
	}

	data, err := RenderExportXLSX(set, "Global")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Global", "A6")
	require.NoError(t, err)
	assert.Equal(t, "TOTAL", v)
}

func TestRenderMatrixPDF(t *testing.T) {
	m := &reports.Matrix{
		Items: []reports.ItemColumn{{ItemID: id.New(), Name: "Activités"}, {ItemID: id.New(), Name: "Viatique"}},
		Rows: []reports.Row{
			{CentreName: "Bouaké", Cells: []reports.Cell{
				{Received: 10, Sold: 4, Remaining: 6, Amount: types.MustMoney("4000")},
				{Received: 3, Sold: 5, Remaining: -2, Amount: types.MustMoney("7500")},
			}},
		},
		ColumnCount: reports.ColumnCount(2),
	}

	data, err := RenderMatrixPDF("Rapport mensuel Février 2024", m)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderMatrixPDF_Empty(t *testing.T) {
	data, err := RenderMatrixPDF("Global", &reports.Matrix{ColumnCount: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
