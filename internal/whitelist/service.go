// Package whitelist restricts sign-up to listed addresses and domains.
package whitelist

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/apperror"
)

const catalogue = "email-whitelist"

// Service manages the whitelist.
type Service struct {
	store  Store
	authz  *authz.Authorizer
	logger *zap.Logger
}

// NewService creates a whitelist service.
func NewService(store Store, authorizer *authz.Authorizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, authz: authorizer, logger: logger}
}

func (s *Service) List(ctx context.Context, caller authz.Principal) ([]models.EmailWhitelistEntry, error) {
	if err := s.manage(ctx, caller); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

// Add lists a single address or a whole domain; exactly one must be given.
func (s *Service) Add(ctx context.Context, caller authz.Principal, in *models.EmailWhitelistEntry) (*models.EmailWhitelistEntry, error) {
	if err := s.manage(ctx, caller); err != nil {
		return nil, err
	}
	e := models.EmailWhitelistEntry{
		ID:     uuid.NewString(),
		Email:  strings.ToLower(strings.TrimSpace(in.Email)),
		Domain: strings.ToLower(strings.TrimPrefix(strings.TrimSpace(in.Domain), "@")),
	}
	switch {
	case e.Email == "" && e.Domain == "":
		return nil, apperror.BadRequest("email or domain is required")
	case e.Email != "" && e.Domain != "":
		return nil, apperror.BadRequest("give either email or domain, not both")
	case e.Email != "":
		if _, err := mail.ParseAddress(e.Email); err != nil {
			return nil, apperror.BadRequest("email is not a valid address")
		}
	case strings.ContainsAny(e.Domain, "@ "):
		return nil, apperror.BadRequest("domain is not valid")
	}
	if err := s.store.Insert(ctx, &e); err != nil {
		return nil, err
	}
	s.logger.Info("whitelist entry added", zap.String("id", e.ID), zap.String("by", caller.Username))
	return &e, nil
}

// Delete removes an entry. Removing an absent entry succeeds.
func (s *Service) Delete(ctx context.Context, caller authz.Principal, id string) error {
	if err := s.manage(ctx, caller); err != nil {
		return err
	}
	_, err := s.store.Delete(ctx, id)
	return err
}

// Allowed reports whether email, or its domain, is listed. Matching ignores case.
func (s *Service) Allowed(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false, apperror.BadRequest("email is not a valid address")
	}
	return s.store.Matches(ctx, email, email[at+1:])
}

func (s *Service) manage(ctx context.Context, caller authz.Principal) error {
	if !s.authz.Allowed(ctx, caller, authz.ActionCatalogueManage, authz.CatalogueResource(catalogue)) {
		return apperror.Forbidden("only officers may manage the email whitelist")
	}
	return nil
}
