// Package contacts manages the press contacts notified about a user's tenders.
package contacts

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/apperror"
	"github.com/artograd/backend/pkg/database"
)

// Service implements contact operations. Every contact is private to its user.
type Service struct {
	store  Store
	authz  *authz.Authorizer
	logger *zap.Logger
}

// NewService creates a contact service.
func NewService(store Store, authorizer *authz.Authorizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, authz: authorizer, logger: logger}
}

func validate(c *models.SocialMediaContact) error {
	if strings.TrimSpace(c.ContactName) == "" {
		return apperror.BadRequest("contactName is required")
	}
	if _, err := mail.ParseAddress(c.ContactEmail); err != nil {
		return apperror.BadRequest("contactEmail is not a valid address")
	}
	return nil
}

// Create stores a contact for the caller. An empty userId defaults to the caller.
func (s *Service) Create(ctx context.Context, caller authz.Principal, in *models.SocialMediaContact) (*models.SocialMediaContact, error) {
	c := *in
	if c.UserID == "" {
		c.UserID = caller.Username
	}
	if !s.authz.Allowed(ctx, caller, authz.ActionContactCreate, authz.ContactResource(&c)) {
		return nil, apperror.Forbidden("contacts can only be created for yourself")
	}
	if err := validate(&c); err != nil {
		return nil, err
	}
	c.ID = uuid.NewString()
	if err := s.store.Insert(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) Get(ctx context.Context, caller authz.Principal, id string) (*models.SocialMediaContact, error) {
	return s.owned(ctx, caller, authz.ActionContactRead, id)
}

// Update replaces a contact, keeping its id and owner.
func (s *Service) Update(ctx context.Context, caller authz.Principal, id string, in *models.SocialMediaContact) (*models.SocialMediaContact, error) {
	existing, err := s.owned(ctx, caller, authz.ActionContactUpdate, id)
	if err != nil {
		return nil, err
	}
	c := *in
	c.ID = existing.ID
	c.UserID = existing.UserID
	if err := validate(&c); err != nil {
		return nil, err
	}
	if err := s.store.Replace(ctx, &c); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("contact %s not found", id)
		}
		return nil, err
	}
	return &c, nil
}

func (s *Service) Delete(ctx context.Context, caller authz.Principal, id string) error {
	if _, err := s.owned(ctx, caller, authz.ActionContactDelete, id); err != nil {
		return err
	}
	_, err := s.store.Delete(ctx, id)
	return err
}

// ListByUser returns all contacts of userID to that user.
func (s *Service) ListByUser(ctx context.Context, caller authz.Principal, userID string) ([]models.SocialMediaContact, error) {
	if !s.authz.Allowed(ctx, caller, authz.ActionContactList, authz.ProfileResource(userID)) {
		return nil, apperror.Forbidden("contacts can only be listed by their owner")
	}
	return s.store.ListByUser(ctx, userID, false)
}

// Active returns the active contacts of userID without an ownership check.
// Used when mailing on the user's behalf.
func (s *Service) Active(ctx context.Context, userID string) ([]models.SocialMediaContact, error) {
	return s.store.ListByUser(ctx, userID, true)
}

func (s *Service) owned(ctx context.Context, caller authz.Principal, action authz.Action, id string) (*models.SocialMediaContact, error) {
	c, err := s.store.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperror.NotFound("contact %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	if !s.authz.Allowed(ctx, caller, action, authz.ContactResource(c)) {
		return nil, apperror.Forbidden("contact %s belongs to another user", id)
	}
	return c, nil
}
