package tenders

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/middleware"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/response"
)

// Handler serves /tenders and the nested proposal routes.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a tender handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Create handles POST /tenders.
func (h *Handler) Create(c *gin.Context) {
	var req models.Tender
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	t, err := h.svc.Create(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, t)
}

// Get handles GET /tenders/:id.
func (h *Handler) Get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, t)
}

// Update handles PUT /tenders/:id.
func (h *Handler) Update(c *gin.Context) {
	var req models.Tender
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	t, err := h.svc.Update(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, t)
}

// Delete handles DELETE /tenders/:id.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Search handles GET /tenders.
func (h *Handler) Search(c *gin.Context) {
	var criteria models.TenderSearchCriteria
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

// Count handles GET /tenders/count.
func (h *Handler) Count(c *gin.Context) {
	var criteria models.TenderSearchCriteria
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

// CountByOwner handles GET /tenders/count/:ownerId.
func (h *Handler) CountByOwner(c *gin.Context) {
	n, err := h.svc.CountByOwner(c.Request.Context(), c.Param("ownerId"), c.QueryArray("statuses"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, n)
}

// ListProposals handles GET /tenders/:id/proposals.
func (h *Handler) ListProposals(c *gin.Context) {
	list, err := h.svc.ListProposals(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// GetProposal handles GET /tenders/:id/proposals/:proposalId.
func (h *Handler) GetProposal(c *gin.Context) {
	p, err := h.svc.GetProposal(c.Request.Context(), c.Param("id"), c.Param("proposalId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}

// CreateProposal handles POST /tenders/:id/proposals.
func (h *Handler) CreateProposal(c *gin.Context) {
	var req models.Proposal
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, err := h.svc.CreateProposal(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p)
}

// UpdateProposal handles PUT /tenders/:id/proposals/:proposalId.
func (h *Handler) UpdateProposal(c *gin.Context) {
	var req models.Proposal
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, err := h.svc.UpdateProposal(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id"), c.Param("proposalId"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}

// DeleteProposal handles DELETE /tenders/:id/proposals/:proposalId.
func (h *Handler) DeleteProposal(c *gin.Context) {
	err := h.svc.DeleteProposal(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id"), c.Param("proposalId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// LikeProposal handles POST /tenders/:id/proposals/:proposalId/like.
func (h *Handler) LikeProposal(c *gin.Context) {
	p, err := h.svc.LikeProposal(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id"), c.Param("proposalId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}

// UnlikeProposal handles POST /tenders/:id/proposals/:proposalId/unlike.
func (h *Handler) UnlikeProposal(c *gin.Context) {
	p, err := h.svc.UnlikeProposal(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id"), c.Param("proposalId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}

// RegisterRoutes mounts the tender routes on r.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/tenders", h.Search)
	r.POST("/tenders", h.Create)
	r.GET("/tenders/count", h.Count)
	r.GET("/tenders/count/:ownerId", h.CountByOwner)
	r.GET("/tenders/:id", h.Get)
	r.PUT("/tenders/:id", h.Update)
	r.DELETE("/tenders/:id", h.Delete)

	r.GET("/tenders/:id/proposals", h.ListProposals)
	r.POST("/tenders/:id/proposals", h.CreateProposal)
	r.GET("/tenders/:id/proposals/:proposalId", h.GetProposal)
	r.PUT("/tenders/:id/proposals/:proposalId", h.UpdateProposal)
	r.DELETE("/tenders/:id/proposals/:proposalId", h.DeleteProposal)
	r.POST("/tenders/:id/proposals/:proposalId/like", h.LikeProposal)
	r.POST("/tenders/:id/proposals/:proposalId/unlike", h.UnlikeProposal)
}
