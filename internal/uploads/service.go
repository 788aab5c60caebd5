// Package uploads stores user files in the uploads bucket and derives
// thumbnails for images.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/apperror"
	"github.com/artograd/backend/pkg/storage"
)

// File types reported in FileInfo.Type.
const (
	TypeImage      = "image"
	TypeIframe     = "iframe"
	TypeAttachment = "attachment"
)

var imageExtensions = map[string]bool{
	"svg": true, "png": true, "jpg": true, "jpeg": true,
	"gif": true, "webp": true, "heic": true, "avif": true,
}

// FileType classifies an extension: pdf renders in an iframe, known image
// formats as images, everything else as a download.
func FileType(ext string) string {
	ext = strings.ToLower(ext)
	switch {
	case ext == "pdf":
		return TypeIframe
	case imageExtensions[ext]:
		return TypeImage
	default:
		return TypeAttachment
	}
}

// Extension returns the lowercase extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// Storage puts an object and returns its public URL.
type Storage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error)
}

// Service uploads files.
type Service struct {
	storage Storage
	authz   *authz.Authorizer
	logger  *zap.Logger
}

// NewService creates an upload service.
func NewService(store Storage, authorizer *authz.Authorizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: store, authz: authorizer, logger: logger}
}

// Upload stores data under folder/subFolder with a fresh id and, for
// decodable images, a thumbnail under the snaps folder.
func (s *Service) Upload(ctx context.Context, caller authz.Principal, folder, subFolder, filename string, data []byte) (*models.FileInfo, error) {
	if !s.authz.Allowed(ctx, caller, authz.ActionFileUpload, authz.FileResource(folder)) {
		return nil, apperror.Forbidden("sign in to upload files")
	}
	if folder == "" || subFolder == "" {
		return nil, apperror.BadRequest("folder and subFolder are required")
	}
	if len(data) > storage.MaxUploadSize {
		return nil, apperror.BadRequest("file exceeds %d bytes", storage.MaxUploadSize)
	}

	id := uuid.New().String()
	ext := Extension(filename)
	name := id
	if ext != "" {
		name += "." + ext
	}
	info := &models.FileInfo{
		ID:        id,
		Name:      filename,
		Size:      int64(len(data)),
		Type:      FileType(ext),
		Extension: ext,
	}

	key := storage.ObjectKey(folder, subFolder, name)
	url, err := s.storage.Upload(ctx, key, storage.ContentTypeForExtension(ext), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("store original: %w", err)
	}
	info.Path = url

	if info.Type == TypeImage {
		info.SnapPath = url
		snap, contentType, err := Thumbnail(data)
		switch {
		case errors.Is(err, ErrNotDecodable):
			s.logger.Debug("no thumbnail for image", zap.String("key", key), zap.String("ext", ext))
		case err != nil:
			s.logger.Warn("thumbnail encode failed", zap.String("key", key), zap.Error(err))
		default:
			snapKey := storage.SnapKey(folder, subFolder, name)
			snapURL, err := s.storage.Upload(ctx, snapKey, contentType, bytes.NewReader(snap), int64(len(snap)))
			if err != nil {
				return nil, fmt.Errorf("store thumbnail: %w", err)
			}
			info.SnapPath = snapURL
		}
	}

	s.logger.Info("file uploaded",
		zap.String("key", key),
		zap.String("type", info.Type),
		zap.String("user", caller.Username),
		zap.Int64("size", info.Size),
	)
	return info, nil
}
