// Package users exposes identity provider profiles and keeps the display
// fields copied into tenders and art objects in step with them.
package users

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/identity"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/apperror"
)

// Propagator rewrites the denormalized display fields of a user.
type Propagator interface {
	PropagateProfile(ctx context.Context, username string, info models.UserInfo) (int, error)
}

// Service implements profile operations.
type Service struct {
	dir         identity.Directory
	authz       *authz.Authorizer
	propagators []Propagator
	logger      *zap.Logger
}

// NewService creates a profile service. Each propagator is run after an update.
func NewService(dir identity.Directory, authorizer *authz.Authorizer, logger *zap.Logger, propagators ...Propagator) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{dir: dir, authz: authorizer, propagators: propagators, logger: logger}
}

// Get returns the profile of username with the attributes caller may see.
func (s *Service) Get(ctx context.Context, caller authz.Principal, username string) (*models.User, error) {
	u, err := s.load(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.visible(caller, u), nil
}

// Update changes attributes of the caller's own profile. Unknown and
// read-only keys are rejected before anything is written.
func (s *Service) Update(ctx context.Context, caller authz.Principal, username string, attrs []models.UserAttribute) (*models.User, error) {
	if _, err := s.load(ctx, username); err != nil {
		return nil, err
	}
	if !s.authz.Allowed(ctx, caller, authz.ActionProfileUpdate, authz.ProfileResource(username)) {
		return nil, apperror.Forbidden("profiles can only be changed by their owner")
	}
	updates := make([]models.UserAttribute, 0, len(attrs))
	for _, a := range attrs {
		key := models.ParseAttributeKey(a.Name)
		if key == models.AttrUnrecognized {
			return nil, apperror.BadRequest("unknown attribute %q", a.Name)
		}
		if key.IsReadOnly() {
			return nil, apperror.BadRequest("attribute %q is read-only", a.Name)
		}
		updates = append(updates, models.UserAttribute{Name: key.String(), Value: a.Value})
	}
	if len(updates) == 0 {
		return nil, apperror.BadRequest("no attributes to update")
	}

	if err := s.dir.UpdateUserAttributes(ctx, username, updates); err != nil {
		return nil, s.mapError(username, err)
	}
	u, err := s.load(ctx, username)
	if err != nil {
		return nil, err
	}
	s.propagate(ctx, u)
	return s.visible(caller, u), nil
}

// Delete removes the caller's own account.
func (s *Service) Delete(ctx context.Context, caller authz.Principal, username string) error {
	if _, err := s.load(ctx, username); err != nil {
		return err
	}
	if !s.authz.Allowed(ctx, caller, authz.ActionProfileDelete, authz.ProfileResource(username)) {
		return apperror.Forbidden("profiles can only be deleted by their owner")
	}
	if err := s.dir.DeleteUser(ctx, username); err != nil {
		return s.mapError(username, err)
	}
	s.logger.Info("user deleted", zap.String("username", username))
	return nil
}

func (s *Service) propagate(ctx context.Context, u *models.User) {
	info := u.DisplayInfo()
	for _, p := range s.propagators {
		n, err := p.PropagateProfile(ctx, u.Username, info)
		if err != nil {
			s.logger.Error("profile propagation failed",
				zap.String("username", u.Username), zap.Int("updated", n), zap.Error(err))
			continue
		}
		s.logger.Debug("profile propagated", zap.String("username", u.Username), zap.Int("updated", n))
	}
}

func (s *Service) load(ctx context.Context, username string) (*models.User, error) {
	u, err := s.dir.GetUser(ctx, username)
	if err != nil {
		return nil, s.mapError(username, err)
	}
	return u, nil
}

func (s *Service) visible(caller authz.Principal, u *models.User) *models.User {
	isOwner := caller.Username != "" && caller.Username == u.Username
	return &models.User{
		Username:   u.Username,
		Attributes: authz.FilterAttributes(u.Attributes, caller.Role, isOwner, u.Role()),
	}
}

func (s *Service) mapError(username string, err error) error {
	if errors.Is(err, identity.ErrUserNotFound) {
		return apperror.NotFound("user %s not found", username)
	}
	return err
}
