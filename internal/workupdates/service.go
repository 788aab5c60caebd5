// Package workupdates publishes progress reports on art objects.
package workupdates

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/apperror"
	"github.com/artograd/backend/pkg/database"
)

// ArtObjects resolves the art object an update belongs to.
type ArtObjects interface {
	Get(ctx context.Context, id string) (*models.ArtObject, error)
}

// Service implements work update operations. Reads are public; writes belong
// to the art object's supplier.
type Service struct {
	store      Store
	artObjects ArtObjects
	authz      *authz.Authorizer
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a work update service.
func NewService(store Store, artObjects ArtObjects, authorizer *authz.Authorizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, artObjects: artObjects, authz: authorizer, logger: logger, now: time.Now}
}

func validProgress(p int) error {
	if p < 0 || p > 100 {
		return apperror.BadRequest("progress must be between 0 and 100")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, caller authz.Principal, in *models.WorkUpdate) (*models.WorkUpdate, error) {
	if in.ArtObjectID == "" {
		return nil, apperror.BadRequest("artObjectId is required")
	}
	if err := validProgress(in.Progress); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, in.ArtObjectID); err != nil {
		return nil, err
	}
	u := *in
	u.ID = uuid.NewString()
	if u.Date.IsZero() {
		u.Date = s.now().UTC()
	}
	if err := s.store.Insert(ctx, &u); err != nil {
		return nil, err
	}
	s.logger.Info("work update created",
		zap.String("id", u.ID),
		zap.String("art_object_id", u.ArtObjectID),
		zap.Int("progress", u.Progress),
	)
	return &u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.WorkUpdate, error) {
	u, err := s.store.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperror.NotFound("work update %s not found", id)
	}
	return u, err
}

func (s *Service) Update(ctx context.Context, caller authz.Principal, id string, in *models.WorkUpdate) (*models.WorkUpdate, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, existing.ArtObjectID); err != nil {
		return nil, err
	}
	if err := validProgress(in.Progress); err != nil {
		return nil, err
	}
	u := *in
	u.ID = existing.ID
	u.ArtObjectID = existing.ArtObjectID
	if u.Date.IsZero() {
		u.Date = existing.Date
	}
	if err := s.store.Replace(ctx, &u); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("work update %s not found", id)
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) Delete(ctx context.Context, caller authz.Principal, id string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, caller, u.ArtObjectID); err != nil {
		return err
	}
	_, err = s.store.Delete(ctx, id)
	return err
}

// ListByArtObject returns the updates of an art object, newest first.
func (s *Service) ListByArtObject(ctx context.Context, artObjectID string) ([]models.WorkUpdate, error) {
	return s.store.ListByArtObject(ctx, artObjectID)
}

func (s *Service) authorize(ctx context.Context, caller authz.Principal, artObjectID string) error {
	a, err := s.artObjects.Get(ctx, artObjectID)
	if errors.Is(err, database.ErrNotFound) {
		return apperror.NotFound("art object %s not found", artObjectID)
	}
	if err != nil {
		return err
	}
	if !s.authz.Allowed(ctx, caller, authz.ActionArtObjectReport, authz.ArtObjectResource(a)) {
		return apperror.Forbidden("only the supplier may report progress on art object %s", artObjectID)
	}
	return nil
}
