package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to TenderStatus
		ok       bool
	}{
		{TenderDraft, TenderPublished, true},
		{TenderPublished, TenderIdeation, true},
		{TenderIdeation, TenderVoting, true},
		{TenderSelection, TenderClosed, true},
		{TenderVoting, TenderVoting, true},
		{TenderClosed, TenderDraft, false},
		{TenderDeleted, TenderPublished, false},
		{TenderDraft, TenderClosed, false},
		{TenderIdeation, TenderPublished, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
	assert.False(t, TenderStatus("ARCHIVED").Valid())
}

func TestLikeUnlikeRestoresSet(t *testing.T) {
	p := Proposal{LikedByUsers: []string{"a", "b"}}
	original := append([]string(nil), p.LikedByUsers...)

	assert.True(t, p.Like("c"))
	assert.False(t, p.Like("c"))
	assert.ElementsMatch(t, []string{"a", "b", "c"}, p.LikedByUsers)

	assert.True(t, p.Unlike("c"))
	assert.False(t, p.Unlike("c"))
	assert.ElementsMatch(t, original, p.LikedByUsers)
}

func TestTenderProposalLookup(t *testing.T) {
	tender := Tender{Proposals: []Proposal{{ID: "p1"}, {ID: "p2"}}}

	assert.NotNil(t, tender.Proposal("p2"))
	assert.Nil(t, tender.Proposal("p3"))
	assert.True(t, tender.RemoveProposal("p1"))
	assert.False(t, tender.RemoveProposal("p1"))
	assert.Len(t, tender.Proposals, 1)
}

func TestTenderSearchCriteriaNormalize(t *testing.T) {
	c := TenderSearchCriteria{
		Title:    "  mural ",
		Statuses: []string{"published,ideation", " VOTING "},
		Paging:   Paging{Size: 500, SortOrder: "ASC"},
	}
	c.Normalize()

	assert.Equal(t, "mural", c.Title)
	assert.Equal(t, []string{"PUBLISHED", "IDEATION", "VOTING"}, c.Statuses)
	assert.Equal(t, MaxPageSize, c.Size)
	assert.Equal(t, "createdAt", c.SortBy)
	assert.False(t, c.Desc())

	var d TenderSearchCriteria
	d.Normalize()
	assert.Equal(t, 0, d.Page)
	assert.Equal(t, DefaultPageSize, d.Size)
	assert.True(t, d.Desc())
}

func TestLocationLeafID(t *testing.T) {
	loc := &Location{NestedLocation: &NestedLocation{ID: "me", Name: "Montenegro",
		Child: &NestedLocation{ID: "me-bd", Name: "Budva"}}}
	assert.Equal(t, "me-bd", loc.LeafID())

	var none *Location
	assert.Empty(t, none.LeafID())
}

func TestStampStrictlyIncreases(t *testing.T) {
	prev := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, Stamp(prev, prev).After(prev))
	assert.True(t, Stamp(prev.Add(-time.Hour), prev).After(prev))
	later := prev.Add(time.Second)
	assert.Equal(t, later, Stamp(later, prev))
}
