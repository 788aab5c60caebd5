package models

import (
	"strings"
	"time"
)

// TenderStatus is the lifecycle state of a tender.
type TenderStatus string

const (
	TenderDraft     TenderStatus = "DRAFT"
	TenderPublished TenderStatus = "PUBLISHED"
	TenderIdeation  TenderStatus = "IDEATION"
	TenderVoting    TenderStatus = "VOTING"
	TenderSelection TenderStatus = "SELECTION"
	TenderCancelled TenderStatus = "CANCELLED"
	TenderClosed    TenderStatus = "CLOSED"
	TenderDeleted   TenderStatus = "DELETED"
)

var tenderTransitions = map[TenderStatus][]TenderStatus{
	TenderDraft:     {TenderPublished, TenderCancelled, TenderDeleted},
	TenderPublished: {TenderDraft, TenderIdeation, TenderCancelled, TenderDeleted},
	TenderIdeation:  {TenderVoting, TenderSelection, TenderCancelled},
	TenderVoting:    {TenderSelection, TenderCancelled},
	TenderSelection: {TenderClosed, TenderCancelled},
	TenderCancelled: {TenderDeleted},
}

// Valid reports whether s is one of the known statuses.
func (s TenderStatus) Valid() bool {
	switch s {
	case TenderDraft, TenderPublished, TenderIdeation, TenderVoting, TenderSelection,
		TenderCancelled, TenderClosed, TenderDeleted:
		return true
	}
	return false
}

// CanTransition reports whether a tender may move from one status to another.
// Keeping the current status is always allowed.
func CanTransition(from, to TenderStatus) bool {
	if from == to {
		return true
	}
	for _, next := range tenderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Tender is a call for proposals with its proposals embedded.
type Tender struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description,omitempty"`
	SubmissionStart    *time.Time   `json:"submissionStart,omitempty"`
	SubmissionEnd      *time.Time   `json:"submissionEnd,omitempty"`
	ExpectedDelivery   *time.Time   `json:"expectedDelivery,omitempty"`
	Category           []string     `json:"category,omitempty"`
	Location           *Location    `json:"location,omitempty"`
	LocationLeafID     string       `json:"locationLeafId,omitempty"`
	Files              []FileInfo   `json:"files,omitempty"`
	OwnerID            string       `json:"ownerId"`
	OwnerName          string       `json:"ownerName,omitempty"`
	OwnerPicture       string       `json:"ownerPicture,omitempty"`
	Organization       string       `json:"organization,omitempty"`
	OwnerEmail         string       `json:"ownerEmail,omitempty"`
	ShowEmail          bool         `json:"showEmail"`
	Status             TenderStatus `json:"status"`
	Proposals          []Proposal   `json:"proposals"`
	CancellationReason string       `json:"cancellationReason,omitempty"`
	VotingEndDate      *time.Time   `json:"votingEndDate,omitempty"`
	ArtObjectID        string       `json:"artObjectId,omitempty"`
	WinnerProposalID   string       `json:"winnerProposalId,omitempty"`
	CreatedAt          time.Time    `json:"createdAt"`
	ModifiedAt         time.Time    `json:"modifiedAt"`

	// Version is the stored document version, used for conditional writes.
	Version int64 `json:"-"`
}

// ApplyOwner copies display fields onto the tender.
func (t *Tender) ApplyOwner(info UserInfo) {
	t.OwnerName = info.Name
	t.OwnerPicture = info.Picture
	t.Organization = info.Organization
}

// Proposal returns the embedded proposal with id, or nil.
func (t *Tender) Proposal(id string) *Proposal {
	for i := range t.Proposals {
		if t.Proposals[i].ID == id {
			return &t.Proposals[i]
		}
	}
	return nil
}

// RemoveProposal drops the proposal with id and reports whether it existed.
func (t *Tender) RemoveProposal(id string) bool {
	for i := range t.Proposals {
		if t.Proposals[i].ID == id {
			t.Proposals = append(t.Proposals[:i], t.Proposals[i+1:]...)
			return true
		}
	}
	return false
}

// Proposal is an artist's answer to a tender.
type Proposal struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Files             []FileInfo `json:"files,omitempty"`
	Cover             *FileInfo  `json:"cover,omitempty"`
	EstimatedDuration int        `json:"estimatedDuration,omitempty"`
	EstimatedCost     float64    `json:"estimatedCost,omitempty"`
	OwnerID           string     `json:"ownerId"`
	OwnerName         string     `json:"ownerName,omitempty"`
	OwnerPicture      string     `json:"ownerPicture,omitempty"`
	OwnerOrg          string     `json:"ownerOrg,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	ModifiedAt        time.Time  `json:"modifiedAt"`
	LikedByUsers      []string   `json:"likedByUsers"`
}

// ApplyOwner copies display fields onto the proposal.
func (p *Proposal) ApplyOwner(info UserInfo) {
	p.OwnerName = info.Name
	p.OwnerPicture = info.Picture
	p.OwnerOrg = info.Organization
}

// Like adds username to the liked-by set. Reports whether the set changed.
func (p *Proposal) Like(username string) bool {
	for _, u := range p.LikedByUsers {
		if u == username {
			return false
		}
	}
	p.LikedByUsers = append(p.LikedByUsers, username)
	return true
}

// Unlike removes username from the liked-by set. Reports whether the set changed.
func (p *Proposal) Unlike(username string) bool {
	for i, u := range p.LikedByUsers {
		if u == username {
			p.LikedByUsers = append(p.LikedByUsers[:i], p.LikedByUsers[i+1:]...)
			return true
		}
	}
	return false
}

// TenderSearchCriteria filters GET /tenders.
type TenderSearchCriteria struct {
	Title           string   `form:"title"`
	LocationLeafIDs []string `form:"locationLeafIds"`
	Statuses        []string `form:"statuses"`
	OwnerID         string   `form:"ownerId"`
	Paging
}

// Normalize applies paging defaults, splits list values and upper-cases statuses.
func (c *TenderSearchCriteria) Normalize() {
	c.Title = strings.TrimSpace(c.Title)
	c.LocationLeafIDs = splitList(c.LocationLeafIDs)
	c.Statuses = upperAll(splitList(c.Statuses))
	c.Paging.Normalize()
}

func upperAll(in []string) []string {
	for i := range in {
		in[i] = strings.ToUpper(in[i])
	}
	return in
}
