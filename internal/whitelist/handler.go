package whitelist

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/middleware"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/response"
)

// Handler serves /email-whitelist.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a whitelist handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), middleware.ClaimsFrom(c).Principal())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

func (h *Handler) Add(c *gin.Context) {
	var req models.EmailWhitelistEntry
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	e, err := h.svc.Add(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, e)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Check handles GET /email-whitelist/check?email=.
func (h *Handler) Check(c *gin.Context) {
	ok, err := h.svc.Allowed(c.Request.Context(), c.Query("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ok)
}

// RegisterRoutes mounts the whitelist routes on r.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/email-whitelist", h.List)
	r.POST("/email-whitelist", h.Add)
	r.GET("/email-whitelist/check", h.Check)
	r.DELETE("/email-whitelist/:id", h.Delete)
}
