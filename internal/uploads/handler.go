package uploads

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/middleware"
	"github.com/artograd/backend/pkg/response"
	"github.com/artograd/backend/pkg/storage"
)

// Handler serves file uploads.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates an upload handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Upload handles POST /uploadFile/:folder/:subFolder (multipart field "file").
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file (form field: file)")
		return
	}
	if file.Size > storage.MaxUploadSize {
		response.BadRequest(c, "file size exceeds 50MB limit")
		return
	}
	rc, err := file.Open()
	if err != nil {
		h.logger.Error("open uploaded file failed", zap.Error(err))
		response.Internal(c, "failed to read file")
		return
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, storage.MaxUploadSize+1))
	if err != nil {
		h.logger.Error("read uploaded file failed", zap.Error(err))
		response.Internal(c, "failed to read file")
		return
	}

	info, err := h.svc.Upload(c.Request.Context(), middleware.ClaimsFrom(c).Principal(),
		c.Param("folder"), c.Param("subFolder"), file.Filename, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, info)
}

// RegisterRoutes mounts the upload route on r.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/uploadFile/:folder/:subFolder", middleware.RequireUser(), h.Upload)
}
