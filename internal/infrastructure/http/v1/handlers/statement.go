package handlers

import (
	"github.com/gin-gonic/gin"

	"centrebooks/internal/domain/audit"
	"centrebooks/internal/domain/statements"
	"centrebooks/internal/infrastructure/http/v1/dto"
)

// SaveObserver counts statement writes.
type SaveObserver interface {
	ObserveStatementSave(action string, err error)
}

// StatementHandler handles statement endpoints.
type StatementHandler struct {
	*BaseHandler
	service *statements.Service
	trail   *audit.Trail
	obs     SaveObserver
}

// NewStatementHandler creates a new statement handler. trail and obs may be nil.
func NewStatementHandler(base *BaseHandler, service *statements.Service, trail *audit.Trail, obs SaveObserver) *StatementHandler {
	return &StatementHandler{
		BaseHandler: base,
		service:     service,
		trail:       trail,
		obs:         obs,
	}
}

// List handles GET /statements
func (h *StatementHandler) List(c *gin.Context) {
	var req dto.ListStatementsRequest
	if !h.BindQuery(c, &req) {
		return
	}
	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), h.Principal(c), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromStatementList(res, req.PaginationRequest))
}

// Get handles GET /statements/:id
func (h *StatementHandler) Get(c *gin.Context) {
	statementID, ok := h.PathID(c)
	if !ok {
		return
	}
	st, err := h.service.GetByID(c.Request.Context(), h.Principal(c), statementID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromStatement(st))
}

// Create handles POST /statements
func (h *StatementHandler) Create(c *gin.Context) {
	var req dto.StatementRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	st, err := h.service.Create(c.Request.Context(), h.Principal(c), in)
	h.observe("create", err)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, st.ID)
}

// Update handles PUT /statements/:id, a full re-save.
func (h *StatementHandler) Update(c *gin.Context) {
	statementID, ok := h.PathID(c)
	if !ok {
		return
	}
	var req dto.StatementRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	st, err := h.service.Update(c.Request.Context(), h.Principal(c), statementID, in)
	h.observe("update", err)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromStatement(st))
}

// Delete handles DELETE /statements/:id
func (h *StatementHandler) Delete(c *gin.Context) {
	statementID, ok := h.PathID(c)
	if !ok {
		return
	}
	err := h.service.Delete(c.Request.Context(), h.Principal(c), statementID)
	h.observe("delete", err)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// History handles GET /statements/:id/history. Visibility follows the
// statement itself, so a deleted statement has no readable history here.
func (h *StatementHandler) History(c *gin.Context) {
	statementID, ok := h.PathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.service.GetByID(ctx, h.Principal(c), statementID); err != nil {
		h.Error(c, err)
		return
	}

	limit, ok := h.QueryInt(c, "limit", 0)
	if !ok {
		return
	}

	var entries []audit.Entry
	if h.trail != nil {
		var err error
		entries, err = h.trail.History(ctx, statements.EntityType, statementID, limit)
		if err != nil {
			h.Error(c, err)
			return
		}
	}
	h.OK(c, dto.FromAuditEntries(entries))
}

func (h *StatementHandler) observe(action string, err error) {
	if h.obs != nil {
		h.obs.ObserveStatementSave(action, err)
	}
}
