package team

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/middleware"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/response"
)

// Handler serves /team.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a team handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

func (h *Handler) Create(c *gin.Context) {
	var req models.TeamMate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	m, err := h.svc.Create(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, m)
}

func (h *Handler) Update(c *gin.Context) {
	var req models.TeamMate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	m, err := h.svc.Update(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, m)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RegisterRoutes mounts the team routes on r.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/team", h.List)
	r.POST("/team", h.Create)
	r.PUT("/team/:id", h.Update)
	r.DELETE("/team/:id", h.Delete)
}
