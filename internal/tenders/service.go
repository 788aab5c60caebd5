// Package tenders manages tenders and the proposals embedded in them.
package tenders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/apperror"
	"github.com/artograd/backend/pkg/database"
)

// maxWriteAttempts bounds the read-modify-write retries on version conflicts.
const maxWriteAttempts = 5

// errUnchanged lets a mutation skip the write.
var errUnchanged = errors.New("unchanged")

// Profiles looks up display fields for owner enrichment.
type Profiles interface {
	Lookup(ctx context.Context, username string) (models.UserInfo, bool)
}

// Service implements tender and proposal operations.
type Service struct {
	store    Store
	authz    *authz.Authorizer
	profiles Profiles
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a tender service.
func NewService(store Store, authorizer *authz.Authorizer, profiles Profiles, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		authz:    authorizer,
		profiles: profiles,
		logger:   logger,
		now:      time.Now,
	}
}

// Create stores a new tender owned by the caller. The caller must be an
// officer and the tender's ownerId must name them.
func (s *Service) Create(ctx context.Context, caller authz.Principal, in *models.Tender) (*models.Tender, error) {
	if !s.authz.Allowed(ctx, caller, authz.ActionTenderCreate, authz.TenderResource(in)) {
		return nil, apperror.Forbidden("only an officer may create a tender on their own behalf")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperror.BadRequest("title is required")
	}
	t := *in
	if t.Status == "" {
		t.Status = models.TenderDraft
	}
	t.Status = models.TenderStatus(strings.ToUpper(string(t.Status)))
	if !t.Status.Valid() {
		return nil, apperror.BadRequest("unknown status %q", in.Status)
	}
	if t.Status != models.TenderDraft && t.Status != models.TenderPublished {
		return nil, apperror.Conflict("a tender cannot be created in status %s", t.Status)
	}

	now := s.now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.ModifiedAt = now
	t.Proposals = []models.Proposal{}
	t.ArtObjectID = ""
	t.WinnerProposalID = ""
	if t.LocationLeafID == "" {
		t.LocationLeafID = t.Location.LeafID()
	}
	s.enrichOwner(ctx, &t)

	if err := s.store.Insert(ctx, &t); err != nil {
		return nil, err
	}
	s.logger.Info("tender created", zap.String("tender_id", t.ID), zap.String("owner", t.OwnerID))
	return &t, nil
}

// Get returns a tender.
func (s *Service) Get(ctx context.Context, id string) (*models.Tender, error) {
	t, err := s.store.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperror.NotFound("tender %s not found", id)
	}
	return t, err
}

// Update replaces the editable fields of a tender. Id, creation time, owner,
// proposals and the art object link are kept; the status must follow the
// lifecycle.
func (s *Service) Update(ctx context.Context, caller authz.Principal, id string, in *models.Tender) (*models.Tender, error) {
	return s.mutate(ctx, id, func(existing *models.Tender) error {
		if !s.authz.Allowed(ctx, caller, authz.ActionTenderUpdate, authz.TenderResource(existing)) {
			return apperror.Forbidden("only the owning officer may update this tender")
		}
		if strings.TrimSpace(in.Title) == "" {
			return apperror.BadRequest("title is required")
		}
		status := models.TenderStatus(strings.ToUpper(string(in.Status)))
		if status == "" {
			status = existing.Status
		}
		if !status.Valid() {
			return apperror.BadRequest("unknown status %q", in.Status)
		}
		if !models.CanTransition(existing.Status, status) {
			return apperror.Conflict("tender cannot move from %s to %s", existing.Status, status)
		}
		if in.WinnerProposalID != "" && existing.Proposal(in.WinnerProposalID) == nil {
			return apperror.BadRequest("winner proposal %s is not part of this tender", in.WinnerProposalID)
		}

		t := *in
		t.ID = existing.ID
		t.OwnerID = existing.OwnerID
		t.CreatedAt = existing.CreatedAt
		t.ModifiedAt = models.Stamp(s.now(), existing.ModifiedAt)
		t.Status = status
		t.Proposals = existing.Proposals
		t.ArtObjectID = existing.ArtObjectID
		if existing.ArtObjectID != "" {
			t.WinnerProposalID = existing.WinnerProposalID
		}
		if t.LocationLeafID == "" {
			t.LocationLeafID = t.Location.LeafID()
		}
		t.Version = existing.Version
		s.enrichOwner(ctx, &t)
		*existing = t
		return nil
	})
}

// Delete removes a tender. Deleting an absent tender succeeds.
func (s *Service) Delete(ctx context.Context, caller authz.Principal, id string) error {
	t, err := s.store.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !s.authz.Allowed(ctx, caller, authz.ActionTenderDelete, authz.TenderResource(t)) {
		return apperror.Forbidden("only the owning officer may delete this tender")
	}
	if _, err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("tender deleted", zap.String("tender_id", id))
	return nil
}

// Search returns one page of tenders matching c.
func (s *Service) Search(ctx context.Context, c models.TenderSearchCriteria) ([]models.Tender, error) {
	c.Normalize()
	if !SortableField(c.SortBy) {
		return nil, apperror.BadRequest("cannot sort by %q", c.SortBy)
	}
	return s.store.Search(ctx, c)
}

// Count returns how many tenders match c, ignoring paging.
func (s *Service) Count(ctx context.Context, c models.TenderSearchCriteria) (int64, error) {
	c.Normalize()
	return s.store.Count(ctx, c)
}

// CountByOwner counts an owner's tenders, optionally restricted to statuses.
func (s *Service) CountByOwner(ctx context.Context, ownerID string, statuses []string) (int64, error) {
	return s.Count(ctx, models.TenderSearchCriteria{OwnerID: ownerID, Statuses: statuses})
}

// AdvanceToIdeation moves published tenders whose submission has started to
// IDEATION. Tenders changed concurrently are left for the next run.
func (s *Service) AdvanceToIdeation(ctx context.Context) (int, error) {
	now := s.now().UTC()
	due, err := s.store.ListDueForIdeation(ctx, now)
	if err != nil {
		return 0, err
	}
	moved := 0
	for i := range due {
		t := &due[i]
		t.Status = models.TenderIdeation
		t.ModifiedAt = models.Stamp(now, t.ModifiedAt)
		err := s.store.Replace(ctx, t)
		switch {
		case errors.Is(err, database.ErrVersionConflict), errors.Is(err, database.ErrNotFound):
			s.logger.Info("skipping tender changed during status run", zap.String("tender_id", t.ID))
		case err != nil:
			return moved, err
		default:
			moved++
		}
	}
	return moved, nil
}

// PropagateProfile copies fresh display fields into every tender and proposal
// owned by username. Returns the number of tenders rewritten.
func (s *Service) PropagateProfile(ctx context.Context, username string, info models.UserInfo) (int, error) {
	list, err := s.store.ListByParticipant(ctx, username)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, t := range list {
		_, err := s.mutate(ctx, t.ID, func(t *models.Tender) error {
			changed := false
			if t.OwnerID == username {
				t.ApplyOwner(info)
				changed = true
			}
			for i := range t.Proposals {
				if t.Proposals[i].OwnerID == username {
					t.Proposals[i].ApplyOwner(info)
					changed = true
				}
			}
			if !changed {
				return errUnchanged
			}
			return nil
		})
		if apperror.IsNotFound(err) {
			continue
		}
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// mutate loads the tender, applies fn and writes it back under the loaded
// version, retrying from a fresh read when another write got there first.
func (s *Service) mutate(ctx context.Context, id string, fn func(t *models.Tender) error) (*models.Tender, error) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		t, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(t); err != nil {
			if errors.Is(err, errUnchanged) {
				return t, nil
			}
			return nil, err
		}
		err = s.store.Replace(ctx, t)
		if errors.Is(err, database.ErrVersionConflict) {
			s.logger.Debug("tender version conflict, retrying", zap.String("tender_id", id), zap.Int("attempt", attempt))
			continue
		}
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("tender %s not found", id)
		}
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, apperror.Conflict("tender %s is being modified concurrently, retry", id)
}

func (s *Service) enrichOwner(ctx context.Context, t *models.Tender) {
	if t.OwnerID == "" {
		return
	}
	if info, ok := s.profiles.Lookup(ctx, t.OwnerID); ok {
		t.ApplyOwner(info)
	}
}
