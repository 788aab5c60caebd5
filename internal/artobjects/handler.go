package artobjects

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/middleware"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/response"
)

// Handler serves /artobjects.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates an art object handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Create handles POST /artobjects?tenderId=&winnerProposalId=.
func (h *Handler) Create(c *gin.Context) {
	tenderID := c.Query("tenderId")
	proposalID := c.Query("winnerProposalId")
	if tenderID == "" || proposalID == "" {
		response.BadRequest(c, "tenderId and winnerProposalId are required")
		return
	}
	a, err := h.svc.Create(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), tenderID, proposalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, a)
}

// Get handles GET /artobjects/:id.
func (h *Handler) Get(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, a)
}

// Update handles PUT /artobjects/:id.
func (h *Handler) Update(c *gin.Context) {
	var req models.ArtObject
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	a, err := h.svc.Update(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, a)
}

// Patch handles PATCH /artobjects/:id.
func (h *Handler) Patch(c *gin.Context) {
	var req models.ArtObjectPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	a, err := h.svc.Patch(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, a)
}

// Delete handles DELETE /artobjects/:id.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Search handles GET /artobjects/search.
func (h *Handler) Search(c *gin.Context) {
	var criteria models.ArtObjectSearchCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		response.BadRequest(c, "invalid query: "+err.Error())
		return
	}
	list, err := h.svc.Search(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Count handles GET /artobjects/count.
func (h *Handler) Count(c *gin.Context) {
	var criteria models.ArtObjectSearchCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		response.BadRequest(c, "invalid query: "+err.Error())
		return
	}
	n, err := h.svc.Count(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, n)
}

// RegisterRoutes mounts the art object routes on r.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/artobjects", h.Create)
	r.GET("/artobjects/search", h.Search)
	r.GET("/artobjects/count", h.Count)
	r.GET("/artobjects/:id", h.Get)
	r.PUT("/artobjects/:id", h.Update)
	r.PATCH("/artobjects/:id", h.Patch)
	r.DELETE("/artobjects/:id", h.Delete)
}
