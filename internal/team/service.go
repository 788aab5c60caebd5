// Package team serves the team shown on the about page.
package team

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/apperror"
	"github.com/artograd/backend/pkg/database"
)

const catalogue = "team"

// Service lists team mates publicly and lets officers edit them.
type Service struct {
	store  Store
	authz  *authz.Authorizer
	logger *zap.Logger
}

// NewService creates a team service.
func NewService(store Store, authorizer *authz.Authorizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, authz: authorizer, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]models.TeamMate, error) {
	return s.store.ListActive(ctx)
}

func (s *Service) Create(ctx context.Context, caller authz.Principal, in *models.TeamMate) (*models.TeamMate, error) {
	if err := s.manage(ctx, caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperror.BadRequest("name is required")
	}
	m := *in
	m.ID = uuid.NewString()
	if err := s.store.Insert(ctx, &m); err != nil {
		return nil, err
	}
	s.logger.Info("team mate added", zap.String("id", m.ID), zap.String("by", caller.Username))
	return &m, nil
}

func (s *Service) Update(ctx context.Context, caller authz.Principal, id string, in *models.TeamMate) (*models.TeamMate, error) {
	if err := s.manage(ctx, caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperror.BadRequest("name is required")
	}
	m := *in
	m.ID = id
	err := s.store.Replace(ctx, &m)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperror.NotFound("team mate %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) Delete(ctx context.Context, caller authz.Principal, id string) error {
	if err := s.manage(ctx, caller); err != nil {
		return err
	}
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("team mate %s not found", id)
	}
	return nil
}

func (s *Service) manage(ctx context.Context, caller authz.Principal) error {
	if !s.authz.Allowed(ctx, caller, authz.ActionCatalogueManage, authz.CatalogueResource(catalogue)) {
		return apperror.Forbidden("only officers may edit the team")
	}
	return nil
}
