// Package testutil holds in-memory fakes shared by package tests.
package testutil

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/database"
)

func clone[T any](v T) T {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}

// TenderStore is an in-memory tender store with versioned writes.
type TenderStore struct {
	mu       sync.Mutex
	docs     map[string]models.Tender
	versions map[string]int64

	// BeforeReplace, when set, runs before each Replace outside the lock.
	// Tests use it to slip in a competing write.
	BeforeReplace func(t *models.Tender)
	Replaces      int
}

// NewTenderStore creates an empty store.
func NewTenderStore() *TenderStore {
	return &TenderStore{docs: map[string]models.Tender{}, versions: map[string]int64{}}
}

func (s *TenderStore) Insert(_ context.Context, t *models.Tender) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[t.ID] = clone(*t)
	s.versions[t.ID] = 1
	t.Version = 1
	return nil
}

func (s *TenderStore) Get(_ context.Context, id string) (*models.Tender, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	t := clone(doc)
	t.Version = s.versions[id]
	return &t, nil
}

func (s *TenderStore) Replace(_ context.Context, t *models.Tender) error {
	if hook := s.BeforeReplace; hook != nil {
		hook(t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Replaces++
	current, ok := s.versions[t.ID]
	if !ok {
		return database.ErrNotFound
	}
	if t.Version > 0 && t.Version != current {
		return database.ErrVersionConflict
	}
	s.docs[t.ID] = clone(*t)
	s.versions[t.ID] = current + 1
	t.Version = current + 1
	return nil
}

func (s *TenderStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[id]
	delete(s.docs, id)
	delete(s.versions, id)
	return ok, nil
}

func (s *TenderStore) Search(ctx context.Context, c models.TenderSearchCriteria) ([]models.Tender, error) {
	list := s.filter(c)
	sort.SliceStable(list, func(i, j int) bool {
		if c.Desc() {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	start := c.Page * c.Size
	if start >= len(list) {
		return []models.Tender{}, nil
	}
	end := start + c.Size
	if end > len(list) {
		end = len(list)
	}
	return list[start:end], nil
}

func (s *TenderStore) Count(_ context.Context, c models.TenderSearchCriteria) (int64, error) {
	return int64(len(s.filter(c))), nil
}

func (s *TenderStore) ListByParticipant(_ context.Context, username string) ([]models.Tender, error) {
	return s.matching(func(t models.Tender) bool {
		if t.OwnerID == username {
			return true
		}
		for _, p := range t.Proposals {
			if p.OwnerID == username {
				return true
			}
		}
		return false
	}), nil
}

func (s *TenderStore) ListDueForIdeation(_ context.Context, now time.Time) ([]models.Tender, error) {
	return s.matching(func(t models.Tender) bool {
		return t.Status == models.TenderPublished && t.SubmissionStart != nil && !t.SubmissionStart.After(now)
	}), nil
}

// Put stores t as is, for seeding.
func (s *TenderStore) Put(t models.Tender) {
	_ = s.Insert(context.Background(), &t)
}

func (s *TenderStore) filter(c models.TenderSearchCriteria) []models.Tender {
	return s.matching(func(t models.Tender) bool {
		if c.Title != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(c.Title)) {
			return false
		}
		if c.OwnerID != "" && t.OwnerID != c.OwnerID {
			return false
		}
		if len(c.LocationLeafIDs) > 0 && !contains(c.LocationLeafIDs, t.LocationLeafID) {
			return false
		}
		if len(c.Statuses) > 0 && !contains(c.Statuses, string(t.Status)) {
			return false
		}
		return true
	})
}

func (s *TenderStore) matching(keep func(models.Tender) bool) []models.Tender {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Tender{}
	for id, doc := range s.docs {
		if keep(doc) {
			t := clone(doc)
			t.Version = s.versions[id]
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
