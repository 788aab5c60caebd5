package expenses

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/middleware"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/response"
)

// Handler serves /expensereports.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates an expense report handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Create handles POST /expensereports.
func (h *Handler) Create(c *gin.Context) {
	var req models.ExpenseReport
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	e, err := h.svc.Create(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, e)
}

// Get handles GET /expensereports/:id.
func (h *Handler) Get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, e)
}

// Update handles PUT /expensereports/:id.
func (h *Handler) Update(c *gin.Context) {
	var req models.ExpenseReport
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	e, err := h.svc.Update(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, e)
}

// Delete handles DELETE /expensereports/:id.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListByArtObject handles GET /expensereports/artobject/:artObjectId.
func (h *Handler) ListByArtObject(c *gin.Context) {
	list, err := h.svc.ListByArtObject(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("artObjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// RegisterRoutes mounts the expense report routes on r.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/expensereports", h.Create)
	r.GET("/expensereports/artobject/:artObjectId", h.ListByArtObject)
	r.GET("/expensereports/:id", h.Get)
	r.PUT("/expensereports/:id", h.Update)
	r.DELETE("/expensereports/:id", h.Delete)
}
