package tenders

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/apperror"
)

func newProposalID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ListProposals returns the proposals of a tender.
func (s *Service) ListProposals(ctx context.Context, tenderID string) ([]models.Proposal, error) {
	t, err := s.Get(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if t.Proposals == nil {
		return []models.Proposal{}, nil
	}
	return t.Proposals, nil
}

// GetProposal returns one proposal of a tender.
func (s *Service) GetProposal(ctx context.Context, tenderID, proposalID string) (*models.Proposal, error) {
	t, err := s.Get(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	p := t.Proposal(proposalID)
	if p == nil {
		return nil, apperror.NotFound("proposal %s not found", proposalID)
	}
	return p, nil
}

// CreateProposal adds a proposal owned by the caller. The tender's owner may
// not propose on their own tender.
func (s *Service) CreateProposal(ctx context.Context, caller authz.Principal, tenderID string, in *models.Proposal) (*models.Proposal, error) {
	info, enriched := s.profiles.Lookup(ctx, caller.Username)
	var created models.Proposal

	_, err := s.mutate(ctx, tenderID, func(t *models.Tender) error {
		if !s.authz.Allowed(ctx, caller, authz.ActionProposalCreate, authz.ProposalResource(t, nil)) {
			return apperror.Forbidden("the tender owner cannot submit a proposal to their own tender")
		}
		now := s.now().UTC()
		p := *in
		p.ID = newProposalID()
		p.OwnerID = caller.Username
		p.CreatedAt = now
		p.ModifiedAt = now
		p.LikedByUsers = []string{}
		if enriched {
			p.ApplyOwner(info)
		}
		t.Proposals = append(t.Proposals, p)
		t.ModifiedAt = models.Stamp(now, t.ModifiedAt)
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("proposal created",
		zap.String("tender_id", tenderID),
		zap.String("proposal_id", created.ID),
		zap.String("owner", created.OwnerID),
	)
	return &created, nil
}

// UpdateProposal replaces a proposal's content. Id, creation time, owner and
// likes are kept.
func (s *Service) UpdateProposal(ctx context.Context, caller authz.Principal, tenderID, proposalID string, in *models.Proposal) (*models.Proposal, error) {
	info, enriched := s.profiles.Lookup(ctx, caller.Username)
	var updated models.Proposal

	_, err := s.mutate(ctx, tenderID, func(t *models.Tender) error {
		existing := t.Proposal(proposalID)
		if existing == nil {
			return apperror.NotFound("proposal %s not found", proposalID)
		}
		if !s.authz.Allowed(ctx, caller, authz.ActionProposalUpdate, authz.ProposalResource(t, existing)) {
			return apperror.Forbidden("only the proposal owner may update it")
		}
		p := *in
		p.ID = existing.ID
		p.OwnerID = existing.OwnerID
		p.CreatedAt = existing.CreatedAt
		p.LikedByUsers = existing.LikedByUsers
		p.OwnerName, p.OwnerPicture, p.OwnerOrg = existing.OwnerName, existing.OwnerPicture, existing.OwnerOrg
		p.ModifiedAt = models.Stamp(s.now(), existing.ModifiedAt)
		if enriched {
			p.ApplyOwner(info)
		}
		*existing = p
		t.ModifiedAt = models.Stamp(s.now(), t.ModifiedAt)
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProposal removes a proposal. Unlike tenders, an absent proposal is 404.
func (s *Service) DeleteProposal(ctx context.Context, caller authz.Principal, tenderID, proposalID string) error {
	_, err := s.mutate(ctx, tenderID, func(t *models.Tender) error {
		existing := t.Proposal(proposalID)
		if existing == nil {
			return apperror.NotFound("proposal %s not found", proposalID)
		}
		if !s.authz.Allowed(ctx, caller, authz.ActionProposalDelete, authz.ProposalResource(t, existing)) {
			return apperror.Forbidden("only the proposal owner may delete it")
		}
		if t.WinnerProposalID == proposalID && t.ArtObjectID != "" {
			return apperror.Conflict("proposal %s already became an art object", proposalID)
		}
		t.RemoveProposal(proposalID)
		if t.WinnerProposalID == proposalID {
			t.WinnerProposalID = ""
		}
		t.ModifiedAt = models.Stamp(s.now(), t.ModifiedAt)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("proposal deleted", zap.String("tender_id", tenderID), zap.String("proposal_id", proposalID))
	return nil
}

// LikeProposal adds the caller to the proposal's likes. Liking twice is a no-op.
func (s *Service) LikeProposal(ctx context.Context, caller authz.Principal, tenderID, proposalID string) (*models.Proposal, error) {
	return s.changeLikes(ctx, caller, authz.ActionProposalLike, tenderID, proposalID, (*models.Proposal).Like)
}

// UnlikeProposal removes the caller from the proposal's likes. Unliking an
// unliked proposal is a no-op.
func (s *Service) UnlikeProposal(ctx context.Context, caller authz.Principal, tenderID, proposalID string) (*models.Proposal, error) {
	return s.changeLikes(ctx, caller, authz.ActionProposalUnlike, tenderID, proposalID, (*models.Proposal).Unlike)
}

func (s *Service) changeLikes(ctx context.Context, caller authz.Principal, action authz.Action, tenderID, proposalID string, change func(*models.Proposal, string) bool) (*models.Proposal, error) {
	var result models.Proposal
	_, err := s.mutate(ctx, tenderID, func(t *models.Tender) error {
		p := t.Proposal(proposalID)
		if p == nil {
			return apperror.NotFound("proposal %s not found", proposalID)
		}
		if !s.authz.Allowed(ctx, caller, action, authz.ProposalResource(t, p)) {
			return apperror.Forbidden("sign in to like proposals")
		}
		if p.LikedByUsers == nil {
			p.LikedByUsers = []string{}
		}
		changed := change(p, caller.Username)
		result = *p
		if !changed {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
