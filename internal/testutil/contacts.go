package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/database"
)

// ContactStore is an in-memory contact store.
type ContactStore struct {
	mu   sync.Mutex
	docs map[string]models.SocialMediaContact
}

// NewContactStore creates an empty store.
func NewContactStore() *ContactStore {
	return &ContactStore{docs: map[string]models.SocialMediaContact{}}
}

func (s *ContactStore) Insert(_ context.Context, c *models.SocialMediaContact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[c.ID] = *c
	return nil
}

func (s *ContactStore) Get(_ context.Context, id string) (*models.SocialMediaContact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &c, nil
}

func (s *ContactStore) Replace(_ context.Context, c *models.SocialMediaContact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[c.ID]; !ok {
		return database.ErrNotFound
	}
	s.docs[c.ID] = *c
	return nil
}

func (s *ContactStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[id]
	delete(s.docs, id)
	return ok, nil
}

func (s *ContactStore) ListByUser(_ context.Context, userID string, activeOnly bool) ([]models.SocialMediaContact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.SocialMediaContact{}
	for _, c := range s.docs {
		if c.UserID == userID && (c.Active || !activeOnly) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContactName < out[j].ContactName })
	return out, nil
}

// Put stores c as is, for seeding.
func (s *ContactStore) Put(c models.SocialMediaContact) {
	_ = s.Insert(context.Background(), &c)
}
