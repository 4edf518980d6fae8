package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"centrebooks/internal/core/types"
	"centrebooks/internal/domain/reports"
)

// PDFContentType is the MIME type of RenderMatrixPDF output.
const PDFContentType = "application/pdf"

const (
	pdfMargin      = 10.0
	pdfPageWidth   = 297.0 // A4 landscape
	pdfCentreWidth = 40.0
	pdfRowHeight   = 6.0
)

var cellHeaders = []string{"Reçu", "Vendu", "Reste", "Montant"}

// RenderMatrixPDF renders the Centre x Item matrix as a landscape table with
// a total line.
func RenderMatrixPDF(title string, m *reports.Matrix) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, tr(title))
	pdf.Ln(10)

	cols := len(m.Items) * len(cellHeaders)
	cellWidth := 0.0
	if cols > 0 {
		cellWidth = (pdfPageWidth - 2*pdfMargin - pdfCentreWidth) / float64(cols)
	}
	fontSize := 9.0
	if cellWidth < 14 {
		fontSize = 7
	}

	pdf.SetFont("Arial", "B", fontSize)
	pdf.CellFormat(pdfCentreWidth, pdfRowHeight, "Centre", "1", 0, "C", false, 0, "")
	for _, it := range m.Items {
		pdf.CellFormat(cellWidth*4, pdfRowHeight, tr(it.Name), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.CellFormat(pdfCentreWidth, pdfRowHeight, "", "1", 0, "C", false, 0, "")
	for range m.Items {
		for _, h := range cellHeaders {
			pdf.CellFormat(cellWidth, pdfRowHeight, tr(h), "1", 0, "C", false, 0, "")
		}
	}
	pdf.Ln(-1)

	totals := make([]reports.Cell, len(m.Items))
	for i := range totals {
		totals[i].Amount = types.Zero()
	}

	pdf.SetFont("Arial", "", fontSize)
	for _, row := range m.Rows {
		pdf.CellFormat(pdfCentreWidth, pdfRowHeight, tr(row.CentreName), "1", 0, "L", false, 0, "")
		for i, c := range row.Cells {
			writeCell(pdf, cellWidth, c)
			totals[i].Received += c.Received
			totals[i].Sold += c.Sold
			totals[i].Remaining += c.Remaining
			totals[i].Amount = totals[i].Amount.Add(c.Amount)
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", fontSize)
	pdf.CellFormat(pdfCentreWidth, pdfRowHeight, "TOTAL", "1", 0, "L", false, 0, "")
	for _, c := range totals {
		writeCell(pdf, cellWidth, c)
	}
	pdf.Ln(-1)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeCell(pdf *gofpdf.Fpdf, width float64, c reports.Cell) {
	pdf.CellFormat(width, pdfRowHeight, strconv.FormatInt(c.Received, 10), "1", 0, "R", false, 0, "")
	pdf.CellFormat(width, pdfRowHeight, strconv.FormatInt(c.Sold, 10), "1", 0, "R", false, 0, "")
	pdf.CellFormat(width, pdfRowHeight, strconv.FormatInt(c.Remaining, 10), "1", 0, "R", false, 0, "")
	pdf.CellFormat(width, pdfRowHeight, c.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
}
