package contacts

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/middleware"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/response"
)

// Handler serves /api/contacts.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a contact handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Create(c *gin.Context) {
	var req models.SocialMediaContact
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	contact, err := h.svc.Create(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, contact)
}

func (h *Handler) Get(c *gin.Context) {
	contact, err := h.svc.Get(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, contact)
}

func (h *Handler) Update(c *gin.Context) {
	var req models.SocialMediaContact
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	contact, err := h.svc.Update(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, contact)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) ListByUser(c *gin.Context) {
	list, err := h.svc.ListByUser(c.Request.Context(), middleware.ClaimsFrom(c).Principal(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// RegisterRoutes mounts the contact routes on r.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/api/contacts", h.Create)
	r.GET("/api/contacts/user/:userId", h.ListByUser)
	r.GET("/api/contacts/:id", h.Get)
	r.PUT("/api/contacts/:id", h.Update)
	r.DELETE("/api/contacts/:id", h.Delete)
}
