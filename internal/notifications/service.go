// Package notifications emails a tender owner's press contacts when a
// tender is published. Emails are rendered here and queued for the worker.
package notifications

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/apperror"
	"github.com/artograd/backend/pkg/database"
	"github.com/artograd/backend/pkg/queue"
)

// Tenders loads the tender being announced.
type Tenders interface {
	Get(ctx context.Context, id string) (*models.Tender, error)
}

// Contacts lists the active contacts of a user.
type Contacts interface {
	Active(ctx context.Context, userID string) ([]models.SocialMediaContact, error)
}

// Users resolves the announcing officer.
type Users interface {
	User(ctx context.Context, username string) (*models.User, bool)
}

// Mailer queues a rendered email.
type Mailer interface {
	EnqueueEmail(ctx context.Context, payload queue.EmailPayload) (string, error)
}

// DeliveryLog lists the recorded delivery attempts of a tender's emails.
type DeliveryLog interface {
	ListByTender(ctx context.Context, tenderID string) ([]models.EmailLog, error)
}

// Platform is rendered into every email.
type Platform struct {
	Name string
	Link string
}

// Service sends tender publication emails.
type Service struct {
	tenders  Tenders
	contacts Contacts
	users    Users
	mailer   Mailer
	renderer *Renderer
	log      DeliveryLog
	platform Platform
	authz    *authz.Authorizer
	logger   *zap.Logger
}

// NewService creates a notification service.
func NewService(tenders Tenders, contacts Contacts, users Users, mailer Mailer, renderer *Renderer,
	platform Platform, authorizer *authz.Authorizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tenders:  tenders,
		contacts: contacts,
		users:    users,
		mailer:   mailer,
		renderer: renderer,
		platform: platform,
		authz:    authorizer,
		logger:   logger,
	}
}

// WithDeliveryLog enables Deliveries.
func (s *Service) WithDeliveryLog(log DeliveryLog) *Service {
	s.log = log
	return s
}

func (s *Service) ownedTender(ctx context.Context, caller authz.Principal, tenderID string) (*models.Tender, error) {
	t, err := s.tenders.Get(ctx, tenderID)
	if errors.Is(err, database.ErrNotFound) || apperror.IsNotFound(err) {
		return nil, apperror.NotFound("tender %s not found", tenderID)
	}
	if err != nil {
		return nil, err
	}
	if !s.authz.Allowed(ctx, caller, authz.ActionTenderNotify, authz.TenderResource(t)) {
		return nil, apperror.Forbidden("only the tender owner may announce it")
	}
	return t, nil
}

// Deliveries returns the delivery attempts of a tender's emails, newest first.
func (s *Service) Deliveries(ctx context.Context, caller authz.Principal, tenderID string) ([]models.EmailLog, error) {
	if _, err := s.ownedTender(ctx, caller, tenderID); err != nil {
		return nil, err
	}
	if s.log == nil {
		return []models.EmailLog{}, nil
	}
	return s.log.ListByTender(ctx, tenderID)
}

// TenderPublished queues one email per active contact of the tender owner
// and returns how many were queued.
func (s *Service) TenderPublished(ctx context.Context, caller authz.Principal, tenderID string) (int, error) {
	t, err := s.ownedTender(ctx, caller, tenderID)
	if err != nil {
		return 0, err
	}

	contacts, err := s.contacts.Active(ctx, t.OwnerID)
	if err != nil {
		return 0, err
	}

	data := TenderPublished{
		OfficerName:    t.OwnerName,
		Organization:   t.Organization,
		TenderTitle:    t.Title,
		SubmissionFrom: FormatDate(t.SubmissionStart),
		SubmissionTo:   FormatDate(t.SubmissionEnd),
		TenderLink:     s.platform.Link + "/tender/" + t.ID,
		PlatformName:   s.platform.Name,
		PlatformLink:   s.platform.Link,
	}
	if owner, ok := s.users.User(ctx, t.OwnerID); ok {
		info := owner.DisplayInfo()
		data.OfficerName = info.Name
		data.Organization = info.Organization
		data.OfficerPhone, _ = owner.Attribute(models.AttrPhoneNumber)
	}

	queued := 0
	for _, c := range contacts {
		data.RecipientName = c.ContactName
		subject, body, err := s.renderer.TenderPublished(c.ContactLanguage, data)
		if err != nil {
			return queued, err
		}
		jobID, err := s.mailer.EnqueueEmail(ctx, queue.EmailPayload{
			RecipientEmail: c.ContactEmail,
			Subject:        subject,
			Body:           body,
			MessageGroupID: SubjectTenderPublished,
			TenderID:       t.ID,
		})
		if err != nil {
			return queued, err
		}
		s.logger.Debug("tender email queued",
			zap.String("job_id", jobID),
			zap.String("tender_id", t.ID),
			zap.String("contact_id", c.ID),
		)
		queued++
	}
	s.logger.Info("tender publication announced", zap.String("tender_id", t.ID), zap.Int("emails", queued))
	return queued, nil
}
