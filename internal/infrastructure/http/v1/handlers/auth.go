// Package handlers provides HTTP request handlers.
package handlers

import (
	"github.com/gin-gonic/gin"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/id"
	"centrebooks/internal/domain/auth"
	"centrebooks/internal/infrastructure/http/v1/dto"
)

// LoginObserver counts login outcomes.
type LoginObserver interface {
	ObserveLogin(err error)
}

// AuthHandler serves sign-in, token rotation and the caller's own account.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
	obs     LoginObserver
}

// NewAuthHandler creates the handler. obs may be nil.
func NewAuthHandler(base *BaseHandler, service *auth.Service, obs LoginObserver) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service, obs: obs}
}

// RegisterRoutes mounts login and refresh behind guard, logout and me behind auth.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup, guard gin.HandlerFunc) {
	public.POST("/login", guard, h.Login)
	public.POST("/refresh", guard, h.Refresh)

	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.Me)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, user, err := h.service.Login(c.Request.Context(), req.ToCredentials())
	if h.obs != nil {
		h.obs.ObserveLogin(err)
	}
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewLoginResponse(tokens, user))
}

// Refresh handles POST /auth/refresh. The presented token is consumed.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromTokenPair(tokens))
}

// Logout handles POST /auth/logout, ending every session of the caller.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Me handles GET /auth/me from the stored account.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	user, err := h.service.Account(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromUser(user))
}

func (h *AuthHandler) callerID(c *gin.Context) (id.ID, bool) {
	raw := h.Principal(c).UserID()
	if raw == "" {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return id.ID{}, false
	}
	userID, err := id.Parse(raw)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("token subject is not an account id"))
		return id.ID{}, false
	}
	return userID, true
}
