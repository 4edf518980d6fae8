package handlers

import (
	"github.com/gin-gonic/gin"

	"centrebooks/internal/domain/catalogs/centre"
	"centrebooks/internal/domain/catalogs/item"
	"centrebooks/internal/infrastructure/http/v1/dto"
)

// CentreHandler serves the centre catalog.
type CentreHandler struct {
	*BaseHandler
	service *centre.Service
}

// NewCentreHandler creates a new centre handler.
func NewCentreHandler(base *BaseHandler, service *centre.Service) *CentreHandler {
	return &CentreHandler{BaseHandler: base, service: service}
}

// List handles GET /centres. Centre accounts only see their own centre.
func (h *CentreHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), h.Principal(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCentres(list))
}

// Get handles GET /centres/:id
func (h *CentreHandler) Get(c *gin.Context) {
	centreID, ok := h.PathID(c)
	if !ok {
		return
	}
	ct, err := h.service.GetByID(c.Request.Context(), h.Principal(c), centreID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCentre(ct))
}

// Create handles POST /centres (administrators only).
func (h *CentreHandler) Create(c *gin.Context) {
	var req dto.CreateCentreRequest
	if !h.BindJSON(c, &req) {
		return
	}
	ct := req.ToCentre()
	if err := h.service.Create(c.Request.Context(), h.Principal(c), ct); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, ct.ID)
}

// ItemHandler serves the item catalog.
type ItemHandler struct {
	*BaseHandler
	service *item.Service
}

// NewItemHandler creates a new item handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	return &ItemHandler{BaseHandler: base, service: service}
}

// List handles GET /items
func (h *ItemHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), h.Principal(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromItems(list))
}

// Get handles GET /items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	itemID, ok := h.PathID(c)
	if !ok {
		return
	}
	it, err := h.service.GetByID(c.Request.Context(), h.Principal(c), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromItem(it))
}

// Create handles POST /items (administrators only).
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	it := req.ToItem()
	if err := h.service.Create(c.Request.Context(), h.Principal(c), it); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, it.ID)
}
