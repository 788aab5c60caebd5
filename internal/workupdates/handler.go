package workupdates

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/middleware"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/response"
)

// Handler serves /workupdates.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a work update handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Create handles POST /workupdates.
func (h *Handler) Create(c *gin.Context) {
	var req models.WorkUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	u, err := h.svc.Create(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, u)
}

// Get handles GET /workupdates/:id.
func (h *Handler) Get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}

// Update handles PUT /workupdates/:id.
func (h *Handler) Update(c *gin.Context) {
	var req models.WorkUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	u, err := h.svc.Update(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}

// Delete handles DELETE /workupdates/:id.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListByArtObject handles GET /workupdates/artobject/:artObjectId.
func (h *Handler) ListByArtObject(c *gin.Context) {
	list, err := h.svc.ListByArtObject(c.Request.Context(), c.Param("artObjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// RegisterRoutes mounts the work update routes on r.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/workupdates", h.Create)
	r.GET("/workupdates/artobject/:artObjectId", h.ListByArtObject)
	r.GET("/workupdates/:id", h.Get)
	r.PUT("/workupdates/:id", h.Update)
	r.DELETE("/workupdates/:id", h.Delete)
}
