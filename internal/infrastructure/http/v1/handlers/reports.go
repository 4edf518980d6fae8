package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"centrebooks/internal/core/id"
	"centrebooks/internal/core/period"
	"centrebooks/internal/domain/reports"
	"centrebooks/internal/infrastructure/export"
	"centrebooks/internal/infrastructure/http/v1/dto"
)

// Export formats.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ExportObserver records export outcomes.
type ExportObserver interface {
	ObserveExport(format string, err error, elapsed time.Duration)
}

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service  *reports.Service
	resolver *period.Resolver
	pinned   reports.PinnedItems
	obs      ExportObserver
}

// NewReportsHandler creates a new reports handler. obs may be nil.
func NewReportsHandler(base *BaseHandler, service *reports.Service, resolver *period.Resolver, pinned reports.PinnedItems, obs ExportObserver) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
		resolver:    resolver,
		pinned:      pinned,
		obs:         obs,
	}
}

func (h *ReportsHandler) selection(c *gin.Context, kind period.Kind) (period.Selection, bool) {
	var q dto.PeriodQuery
	if !h.BindQuery(c, &q) {
		return period.Selection{}, false
	}
	return h.resolver.Resolve(kind, q.ToParams()), true
}

// Matrix serves the Centre x Item matrix of one period kind as JSON.
// Repeated itemId parameters narrow the item columns.
func (h *ReportsHandler) Matrix(kind period.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		sel, ok := h.selection(c, kind)
		if !ok {
			return
		}

		var itemIDs []id.ID
		for _, raw := range c.QueryArray("itemId") {
			v, err := dto.ParseOptionalID("itemId", raw)
			if err != nil {
				h.Error(c, err)
				return
			}
			if v != nil {
				itemIDs = append(itemIDs, *v)
			}
		}

		m, err := h.service.Aggregate(c.Request.Context(), h.Principal(c), sel.Range, itemIDs...)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.FromMatrix(sel, m))
	}
}

// ExportXLSX serves the two-item workbook of one period kind.
func (h *ReportsHandler) ExportXLSX(kind period.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		sel, ok := h.selection(c, kind)
		if !ok {
			return
		}

		start := time.Now()
		data, err := h.renderXLSX(c, sel)
		h.observe(FormatXLSX, err, start)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.Attachment(c, sel.FileName("via_act", FormatXLSX), export.XLSXContentType, data)
	}
}

func (h *ReportsHandler) renderXLSX(c *gin.Context, sel period.Selection) ([]byte, error) {
	set, err := h.service.BuildExportRows(c.Request.Context(), h.Principal(c), sel.Range, h.pinned)
	if err != nil {
		return nil, err
	}
	return export.RenderExportXLSX(set, sel.SheetTitle())
}

// ExportPDF serves the matrix of one period kind as a PDF table.
func (h *ReportsHandler) ExportPDF(kind period.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		sel, ok := h.selection(c, kind)
		if !ok {
			return
		}

		start := time.Now()
		data, err := h.renderPDF(c, sel)
		h.observe(FormatPDF, err, start)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.Attachment(c, sel.FileName("", FormatPDF), export.PDFContentType, data)
	}
}

func (h *ReportsHandler) renderPDF(c *gin.Context, sel period.Selection) ([]byte, error) {
	m, err := h.service.Aggregate(c.Request.Context(), h.Principal(c), sel.Range)
	if err != nil {
		return nil, err
	}
	return export.RenderMatrixPDF(ReportTitle(sel), m)
}

// Dashboard handles GET /dashboard
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context(), h.Principal(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDashboard(d))
}

func (h *ReportsHandler) observe(format string, err error, start time.Time) {
	if h.obs != nil {
		h.obs.ObserveExport(format, err, time.Since(start))
	}
}

// ReportTitle is the heading printed on PDF exports.
func ReportTitle(sel period.Selection) string {
	switch sel.Kind {
	case period.KindWeek:
		return fmt.Sprintf("Rapport hebdomadaire S%02d %d", sel.Week, sel.Year)
	case period.KindMonth:
		return fmt.Sprintf("Rapport mensuel %s %d", reports.MonthName(time.Month(sel.Month)), sel.Year)
	case period.KindQuarter:
		return fmt.Sprintf("Rapport trimestriel T%d %d", sel.Quarter, sel.Year)
	case period.KindYear:
		return fmt.Sprintf("Rapport annuel %d", sel.Year)
	default:
		return "Rapport global"
	}
}
