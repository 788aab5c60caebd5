package notifications

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/middleware"
	"github.com/artograd/backend/pkg/response"
)

// Handler serves /api/emails.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a notifications handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// TenderPublished handles POST /api/emails/tender/published/:tenderId.
func (h *Handler) TenderPublished(c *gin.Context) {
	n, err := h.svc.TenderPublished(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("tenderId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"queued": n})
}

// Deliveries handles GET /api/emails/log/tender/:tenderId.
func (h *Handler) Deliveries(c *gin.Context) {
	list, err := h.svc.Deliveries(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("tenderId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// RegisterRoutes mounts the email routes on r.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/api/emails/tender/published/:tenderId", h.TenderPublished)
	r.GET("/api/emails/log/tender/:tenderId", h.Deliveries)
}
