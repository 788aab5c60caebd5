// Package artobjects turns winning proposals into art objects and manages them.
package artobjects

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/internal/sequence"
	"github.com/artograd/backend/pkg/apperror"
	"github.com/artograd/backend/pkg/database"
)

const maxWriteAttempts = 5

// TenderStore is the part of the tender store the conversion needs.
type TenderStore interface {
	Get(ctx context.Context, id string) (*models.Tender, error)
	Replace(ctx context.Context, t *models.Tender) error
}

// Sequencer issues articul numbers.
type Sequencer interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Users resolves owner and supplier profiles.
type Users interface {
	User(ctx context.Context, username string) (*models.User, bool)
}

// Service implements art object operations.
type Service struct {
	store   Store
	tenders TenderStore
	seq     Sequencer
	users   Users
	authz   *authz.Authorizer
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates an art object service.
func NewService(store Store, tenders TenderStore, seq Sequencer, users Users, authorizer *authz.Authorizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		tenders: tenders,
		seq:     seq,
		users:   users,
		authz:   authorizer,
		logger:  logger,
		now:     time.Now,
	}
}

// Create converts a tender and its winning proposal into an art object. The
// tender is marked first, so a tender yields at most one art object.
func (s *Service) Create(ctx context.Context, caller authz.Principal, tenderID, proposalID string) (*models.ArtObject, error) {
	id := uuid.NewString()
	tender, proposal, err := s.reserve(ctx, caller, tenderID, proposalID, id)
	if err != nil {
		return nil, err
	}

	a, err := s.build(ctx, id, tender, proposal)
	if err == nil {
		err = s.store.Insert(ctx, a)
	}
	if err != nil {
		s.release(ctx, tenderID, id)
		return nil, err
	}
	s.logger.Info("art object created",
		zap.String("art_object_id", a.ID),
		zap.String("tender_id", tenderID),
		zap.String("proposal_id", proposalID),
		zap.String("articul", a.Payment.Articul),
	)
	return a, nil
}

func (s *Service) reserve(ctx context.Context, caller authz.Principal, tenderID, proposalID, artObjectID string) (*models.Tender, *models.Proposal, error) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		t, err := s.tenders.Get(ctx, tenderID)
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, apperror.NotFound("tender %s not found", tenderID)
		}
		if err != nil {
			return nil, nil, err
		}
		p := t.Proposal(proposalID)
		if p == nil {
			return nil, nil, apperror.NotFound("proposal %s not found", proposalID)
		}
		if !s.authz.Allowed(ctx, caller, authz.ActionArtObjectCreate, authz.TenderResource(t)) {
			return nil, nil, apperror.Forbidden("only the owning officer may create an art object from this tender")
		}
		if t.ArtObjectID != "" {
			return nil, nil, apperror.Conflict("tender %s already has art object %s", tenderID, t.ArtObjectID)
		}

		t.ArtObjectID = artObjectID
		t.WinnerProposalID = proposalID
		t.ModifiedAt = models.Stamp(s.now(), t.ModifiedAt)
		err = s.tenders.Replace(ctx, t)
		if errors.Is(err, database.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		proposal := *t.Proposal(proposalID)
		return t, &proposal, nil
	}
	return nil, nil, apperror.Conflict("tender %s is being modified concurrently, retry", tenderID)
}

// release clears a reservation left by a failed conversion.
func (s *Service) release(ctx context.Context, tenderID, artObjectID string) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		t, err := s.tenders.Get(ctx, tenderID)
		if err != nil || t.ArtObjectID != artObjectID {
			return
		}
		t.ArtObjectID = ""
		t.ModifiedAt = models.Stamp(s.now(), t.ModifiedAt)
		err = s.tenders.Replace(ctx, t)
		if errors.Is(err, database.ErrVersionConflict) {
			continue
		}
		if err != nil {
			s.logger.Error("release art object reservation", zap.String("tender_id", tenderID), zap.Error(err))
		}
		return
	}
}

func (s *Service) build(ctx context.Context, id string, t *models.Tender, p *models.Proposal) (*models.ArtObject, error) {
	n, err := s.seq.Next(ctx, sequence.ArtObjectSequence)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	a := &models.ArtObject{
		ID:             id,
		Title:          t.Title,
		Description:    t.Description,
		Files:          p.Files,
		Cover:          p.Cover,
		Tender:         &models.TenderRef{ID: t.ID, Title: t.Title},
		ProposalID:     p.ID,
		Status:         models.ArtObjectStatusNew,
		Category:       t.Category,
		Location:       t.Location,
		LocationLeafID: t.LocationLeafID,
		DeliveryDate:   t.ExpectedDelivery,
		Budget: &models.BudgetInfo{
			InitialEstimate:   p.EstimatedCost,
			CurrentEstimate:   p.EstimatedCost,
			FundraisingTarget: p.EstimatedCost,
		},
		Payment:    &models.PaymentInfo{Articul: sequence.Articul(n)},
		Owner:      &models.UserInfo{ID: t.OwnerID, Name: t.OwnerName, Picture: t.OwnerPicture, Organization: t.Organization},
		Supplier:   &models.UserInfo{ID: p.OwnerID, Name: p.OwnerName, Picture: p.OwnerPicture, Organization: p.OwnerOrg},
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if owner, ok := s.users.User(ctx, t.OwnerID); ok {
		info := owner.DisplayInfo()
		a.Owner = &info
	}
	if supplier, ok := s.users.User(ctx, p.OwnerID); ok {
		info := supplier.DisplayInfo()
		a.Supplier = &info
		applyBankDetails(a.Payment, supplier)
	}
	return a, nil
}

func applyBankDetails(pi *models.PaymentInfo, u *models.User) {
	pi.BeneficiaryName, _ = u.Attribute(models.AttrBankBenefitName)
	pi.BeneficiaryBank, _ = u.Attribute(models.AttrBankBenefitBank)
	pi.AccountNumber, _ = u.Attribute(models.AttrBankAccount)
	pi.IBAN, _ = u.Attribute(models.AttrBankIBAN)
	pi.SWIFT, _ = u.Attribute(models.AttrBankSWIFT)
}

// Get returns an art object.
func (s *Service) Get(ctx context.Context, id string) (*models.ArtObject, error) {
	a, err := s.store.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperror.NotFound("art object %s not found", id)
	}
	return a, err
}

// Update replaces the editable fields. Identity, provenance, parties and the
// articul are kept.
func (s *Service) Update(ctx context.Context, caller authz.Principal, id string, in *models.ArtObject) (*models.ArtObject, error) {
	return s.mutate(ctx, id, func(existing *models.ArtObject) error {
		if !s.authz.Allowed(ctx, caller, authz.ActionArtObjectUpdate, authz.ArtObjectResource(existing)) {
			return apperror.Forbidden("only the owning officer may update this art object")
		}
		if strings.TrimSpace(in.Title) == "" {
			return apperror.BadRequest("title is required")
		}
		a := *in
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
		a.Tender = existing.Tender
		a.ProposalID = existing.ProposalID
		a.Owner = existing.Owner
		a.Supplier = existing.Supplier
		if a.Status == "" {
			a.Status = existing.Status
		}
		a.Payment = keepArticul(a.Payment, existing.Payment)
		a.ModifiedAt = models.Stamp(s.now(), existing.ModifiedAt)
		a.Version = existing.Version
		*existing = a
		return nil
	})
}

// Patch copies the set fields of p onto the art object.
func (s *Service) Patch(ctx context.Context, caller authz.Principal, id string, p *models.ArtObjectPatch) (*models.ArtObject, error) {
	return s.mutate(ctx, id, func(existing *models.ArtObject) error {
		if !s.authz.Allowed(ctx, caller, authz.ActionArtObjectPatch, authz.ArtObjectResource(existing)) {
			return apperror.Forbidden("only the owner or supplier may change this art object")
		}
		p.Apply(existing)
		existing.ModifiedAt = models.Stamp(s.now(), existing.ModifiedAt)
		return nil
	})
}

// Delete removes an art object and frees its tender for a new conversion.
// Deleting an absent art object succeeds.
func (s *Service) Delete(ctx context.Context, caller authz.Principal, id string) error {
	a, err := s.store.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !s.authz.Allowed(ctx, caller, authz.ActionArtObjectDelete, authz.ArtObjectResource(a)) {
		return apperror.Forbidden("only the owning officer may delete this art object")
	}
	if _, err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if a.Tender != nil {
		s.release(ctx, a.Tender.ID, a.ID)
	}
	s.logger.Info("art object deleted", zap.String("art_object_id", id))
	return nil
}

// Search returns one page of art objects matching c.
func (s *Service) Search(ctx context.Context, c models.ArtObjectSearchCriteria) ([]models.ArtObject, error) {
	c.Normalize()
	if !SortableField(c.SortBy) {
		return nil, apperror.BadRequest("cannot sort by %q", c.SortBy)
	}
	return s.store.Search(ctx, c)
}

// Count returns how many art objects match c, ignoring paging.
func (s *Service) Count(ctx context.Context, c models.ArtObjectSearchCriteria) (int64, error) {
	c.Normalize()
	return s.store.Count(ctx, c)
}

// PropagateProfile refreshes owner and supplier display fields of username.
func (s *Service) PropagateProfile(ctx context.Context, username string, info models.UserInfo) (int, error) {
	list, err := s.store.ListByParticipant(ctx, username)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, a := range list {
		_, err := s.mutate(ctx, a.ID, func(a *models.ArtObject) error {
			if a.OwnerID() == username {
				owner := info
				a.Owner = &owner
			}
			if a.SupplierID() == username {
				supplier := info
				a.Supplier = &supplier
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

func (s *Service) mutate(ctx context.Context, id string, fn func(a *models.ArtObject) error) (*models.ArtObject, error) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		a, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(a); err != nil {
			return nil, err
		}
		err = s.store.Replace(ctx, a)
		if errors.Is(err, database.ErrVersionConflict) {
			continue
		}
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("art object %s not found", id)
		}
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	return nil, apperror.Conflict("art object %s is being modified concurrently, retry", id)
}

func keepArticul(in, existing *models.PaymentInfo) *models.PaymentInfo {
	if existing == nil {
		return in
	}
	if in == nil {
		return existing
	}
	out := *in
	out.Articul = existing.Articul
	return &out
}
