// Package expenses records what an art object's supplier spent.
package expenses

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

// ArtObjects resolves the art object a report belongs to.
type ArtObjects interface {
	Get(ctx context.Context, id string) (*models.ArtObject, error)
}

// Service implements expense report operations.
type Service struct {
	store      Store
	artObjects ArtObjects
	authz      *authz.Authorizer
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates an expense report service.
func NewService(store Store, artObjects ArtObjects, authorizer *authz.Authorizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, artObjects: artObjects, authz: authorizer, logger: logger, now: time.Now}
}

// Create records a new report. Only the art object's supplier may report.
func (s *Service) Create(ctx context.Context, caller authz.Principal, in *models.ExpenseReport) (*models.ExpenseReport, error) {
	if in.ArtObjectID == "" {
		return nil, apperror.BadRequest("artObjectId is required")
	}
	if in.Amount < 0 {
		return nil, apperror.BadRequest("amount must not be negative")
	}
	if err := s.check(ctx, caller, authz.ActionArtObjectReport, in.ArtObjectID); err != nil {
		return nil, err
	}
	e := *in
	e.ID = uuid.NewString()
	if e.Date.IsZero() {
		e.Date = s.now().UTC()
	}
	if err := s.store.Insert(ctx, &e); err != nil {
		return nil, err
	}
	s.logger.Info("expense report created", zap.String("id", e.ID), zap.String("art_object_id", e.ArtObjectID))
	return &e, nil
}

// Get returns a report to the owner or supplier of its art object.
func (s *Service) Get(ctx context.Context, caller authz.Principal, id string) (*models.ExpenseReport, error) {
	e, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, caller, authz.ActionArtObjectReadExpenses, e.ArtObjectID); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces a report, keeping its id and art object.
func (s *Service) Update(ctx context.Context, caller authz.Principal, id string, in *models.ExpenseReport) (*models.ExpenseReport, error) {
	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, caller, authz.ActionArtObjectReport, existing.ArtObjectID); err != nil {
		return nil, err
	}
	if in.Amount < 0 {
		return nil, apperror.BadRequest("amount must not be negative")
	}
	e := *in
	e.ID = existing.ID
	e.ArtObjectID = existing.ArtObjectID
	if e.Date.IsZero() {
		e.Date = existing.Date
	}
	if err := s.store.Replace(ctx, &e); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("expense report %s not found", id)
		}
		return nil, err
	}
	return &e, nil
}

// Delete removes a report.
func (s *Service) Delete(ctx context.Context, caller authz.Principal, id string) error {
	e, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.check(ctx, caller, authz.ActionArtObjectReport, e.ArtObjectID); err != nil {
		return err
	}
	_, err = s.store.Delete(ctx, id)
	return err
}

// ListByArtObject returns the reports of an art object, newest first.
func (s *Service) ListByArtObject(ctx context.Context, caller authz.Principal, artObjectID string) ([]models.ExpenseReport, error) {
	if err := s.check(ctx, caller, authz.ActionArtObjectReadExpenses, artObjectID); err != nil {
		return nil, err
	}
	return s.store.ListByArtObject(ctx, artObjectID)
}

func (s *Service) get(ctx context.Context, id string) (*models.ExpenseReport, error) {
	e, err := s.store.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperror.NotFound("expense report %s not found", id)
	}
	return e, err
}

func (s *Service) check(ctx context.Context, caller authz.Principal, action authz.Action, artObjectID string) error {
	a, err := s.artObjects.Get(ctx, artObjectID)
	if errors.Is(err, database.ErrNotFound) {
		return apperror.NotFound("art object %s not found", artObjectID)
	}
	if err != nil {
		return err
	}
	if !s.authz.Allowed(ctx, caller, action, authz.ArtObjectResource(a)) {
		return apperror.Forbidden("not allowed to %s for art object %s", action, artObjectID)
	}
	return nil
}
