package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/database"
)

// Records is an in-memory store of art object child records.
type Records[T any] struct {
	mu        sync.Mutex
	docs      map[string]T
	id        func(*T) string
	artObject func(*T) string
	date      func(*T) time.Time
}

// NewExpenseStore creates an empty expense report store.
func NewExpenseStore() *Records[models.ExpenseReport] {
	return &Records[models.ExpenseReport]{
		docs:      map[string]models.ExpenseReport{},
		id:        func(e *models.ExpenseReport) string { return e.ID },
		artObject: func(e *models.ExpenseReport) string { return e.ArtObjectID },
		date:      func(e *models.ExpenseReport) time.Time { return e.Date },
	}
}

// NewWorkUpdateStore creates an empty work update store.
func NewWorkUpdateStore() *Records[models.WorkUpdate] {
	return &Records[models.WorkUpdate]{
		docs:      map[string]models.WorkUpdate{},
		id:        func(u *models.WorkUpdate) string { return u.ID },
		artObject: func(u *models.WorkUpdate) string { return u.ArtObjectID },
		date:      func(u *models.WorkUpdate) time.Time { return u.Date },
	}
}

func (s *Records[T]) Insert(_ context.Context, v *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[s.id(v)] = clone(*v)
	return nil
}

func (s *Records[T]) Get(_ context.Context, id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	v := clone(doc)
	return &v, nil
}

func (s *Records[T]) Replace(_ context.Context, v *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[s.id(v)]; !ok {
		return database.ErrNotFound
	}
	s.docs[s.id(v)] = clone(*v)
	return nil
}

func (s *Records[T]) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[id]
	delete(s.docs, id)
	return ok, nil
}

func (s *Records[T]) ListByArtObject(_ context.Context, artObjectID string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []T{}
	for _, doc := range s.docs {
		if s.artObject(&doc) == artObjectID {
			out = append(out, clone(doc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.date(&out[i]).After(s.date(&out[j])) })
	return out, nil
}

// Len returns the number of stored records.
func (s *Records[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
