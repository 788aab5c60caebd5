package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/database"
)

// ArtObjectStore is an in-memory art object store with versioned writes.
type ArtObjectStore struct {
	mu       sync.Mutex
	docs     map[string]models.ArtObject
	versions map[string]int64

	// FailInsert, when set, is returned by Insert.
	FailInsert error
}

// NewArtObjectStore creates an empty store.
func NewArtObjectStore() *ArtObjectStore {
	return &ArtObjectStore{docs: map[string]models.ArtObject{}, versions: map[string]int64{}}
}

func (s *ArtObjectStore) Insert(_ context.Context, a *models.ArtObject) error {
	if s.FailInsert != nil {
		return s.FailInsert
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[a.ID] = clone(*a)
	s.versions[a.ID] = 1
	a.Version = 1
	return nil
}

func (s *ArtObjectStore) Get(_ context.Context, id string) (*models.ArtObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	a := clone(doc)
	a.Version = s.versions[id]
	return &a, nil
}

func (s *ArtObjectStore) Replace(_ context.Context, a *models.ArtObject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.versions[a.ID]
	if !ok {
		return database.ErrNotFound
	}
	if a.Version > 0 && a.Version != current {
		return database.ErrVersionConflict
	}
	s.docs[a.ID] = clone(*a)
	s.versions[a.ID] = current + 1
	a.Version = current + 1
	return nil
}

func (s *ArtObjectStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[id]
	delete(s.docs, id)
	delete(s.versions, id)
	return ok, nil
}

func (s *ArtObjectStore) Search(_ context.Context, c models.ArtObjectSearchCriteria) ([]models.ArtObject, error) {
	list := s.filter(c)
	sort.SliceStable(list, func(i, j int) bool {
		if c.Desc() {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	size := c.Size
	if size <= 0 {
		size = len(list)
	}
	start := c.Page * size
	if start >= len(list) {
		return []models.ArtObject{}, nil
	}
	end := start + size
	if end > len(list) {
		end = len(list)
	}
	return list[start:end], nil
}

func (s *ArtObjectStore) Count(_ context.Context, c models.ArtObjectSearchCriteria) (int64, error) {
	return int64(len(s.filter(c))), nil
}

func (s *ArtObjectStore) ListByParticipant(_ context.Context, username string) ([]models.ArtObject, error) {
	return s.filter(models.ArtObjectSearchCriteria{UserID: username}), nil
}

// Put stores a as is, for seeding.
func (s *ArtObjectStore) Put(a models.ArtObject) {
	_ = s.Insert(context.Background(), &a)
}

// Len returns the number of stored art objects.
func (s *ArtObjectStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *ArtObjectStore) filter(c models.ArtObjectSearchCriteria) []models.ArtObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ArtObject{}
	for id, doc := range s.docs {
		if c.Title != "" && !strings.Contains(strings.ToLower(doc.Title), strings.ToLower(c.Title)) {
			continue
		}
		if len(c.LocationLeafIDs) > 0 && !contains(c.LocationLeafIDs, doc.LocationLeafID) {
			continue
		}
		if len(c.Statuses) > 0 && !contains(c.Statuses, doc.Status) {
			continue
		}
		if c.UserID != "" && doc.OwnerID() != c.UserID && doc.SupplierID() != c.UserID {
			continue
		}
		a := clone(doc)
		a.Version = s.versions[id]
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sequence is an in-process counter standing in for the Postgres generator.
type Sequence struct {
	mu     sync.Mutex
	values map[string]int64
	Err    error
}

// NewSequence creates a counter starting at zero.
func NewSequence() *Sequence {
	return &Sequence{values: map[string]int64{}}
}

func (s *Sequence) Next(_ context.Context, name string) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name]++
	return s.values[name], nil
}
