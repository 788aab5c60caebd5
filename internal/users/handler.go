package users

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/middleware"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/response"
)

// Handler serves /users/:username.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}

// Update handles PUT /users/:username with a list of attributes.
func (h *Handler) Update(c *gin.Context) {
	var req []models.UserAttribute
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	u, err := h.svc.Update(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("username"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("username")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RegisterRoutes mounts the profile routes on r.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/users/:username", h.Get)
	r.PUT("/users/:username", h.Update)
	r.DELETE("/users/:username", h.Delete)
}
