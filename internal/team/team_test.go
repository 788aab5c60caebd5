package team_test

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/internal/team"
	"github.com/artograd/backend/internal/testutil"
	"github.com/artograd/backend/pkg/database"
)

type memStore struct {
	mu   sync.Mutex
	docs map[string]models.TeamMate
}

func (s *memStore) Insert(_ context.Context, m *models.TeamMate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[m.ID] = *m
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (*models.TeamMate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.docs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &m, nil
}

func (s *memStore) Replace(_ context.Context, m *models.TeamMate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[m.ID]; !ok {
		return database.ErrNotFound
	}
	s.docs[m.ID] = *m
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[id]
	delete(s.docs, id)
	return ok, nil
}

func (s *memStore) ListActive(_ context.Context) ([]models.TeamMate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.TeamMate{}
	for _, m := range s.docs {
		if m.Active {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func TestTeamScenario(t *testing.T) {
	store := &memStore{docs: map[string]models.TeamMate{}}
	store.docs["retired"] = models.TeamMate{ID: "retired", Name: "Gone", Index: 0}
	h := team.NewHandler(team.NewService(store, testutil.Authorizer(t), zap.NewNop()), zap.NewNop())
	r := testutil.Router(h.RegisterRoutes)
	officer := testutil.Token(t, "officer1", models.RoleOfficial)

	w := testutil.Do(r, http.MethodPost, "/team", testutil.Token(t, "artist1", models.RoleArtist), map[string]any{"name": "Eve"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var ids []string
	for _, m := range []map[string]any{
		{"name": "Second", "index": 2, "active": true},
		{"name": "First", "index": 1, "active": true},
	} {
		w = testutil.Do(r, http.MethodPost, "/team", officer, m)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created models.TeamMate
		testutil.Decode(t, w, &created)
		ids = append(ids, created.ID)
	}

	w = testutil.Do(r, http.MethodGet, "/team", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.TeamMate
	testutil.Decode(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Name)
	assert.Equal(t, "Second", list[1].Name)

	w = testutil.Do(r, http.MethodPut, "/team/"+ids[0], officer, map[string]any{"name": "Second", "index": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.Do(r, http.MethodPut, "/team/missing", officer, map[string]any{"name": "Nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.Do(r, http.MethodDelete, "/team/"+ids[1], officer, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.Do(r, http.MethodGet, "/team", "", nil)
	testutil.Decode(t, w, &list)
	assert.Empty(t, list)
}
