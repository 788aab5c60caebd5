package whitelist_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/internal/testutil"
	"github.com/artograd/backend/internal/whitelist"
)

type memStore struct {
	mu      sync.Mutex
	entries []models.EmailWhitelistEntry
}

func (s *memStore) Insert(_ context.Context, e *models.EmailWhitelistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *e)
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) List(_ context.Context) ([]models.EmailWhitelistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.EmailWhitelistEntry{}, s.entries...), nil
}

func (s *memStore) Matches(_ context.Context, email, domain string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.Email == email || e.Domain == domain {
			return true, nil
		}
	}
	return false, nil
}

func TestWhitelistScenario(t *testing.T) {
	svc := whitelist.NewService(&memStore{}, testutil.Authorizer(t), zap.NewNop())
	r := testutil.Router(whitelist.NewHandler(svc, zap.NewNop()).RegisterRoutes)
	officer := testutil.Token(t, "officer1", models.RoleOfficial)

	w := testutil.Do(r, http.MethodPost, "/email-whitelist", testutil.Token(t, "artist1", models.RoleArtist), map[string]any{"domain": "gov.me"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.Do(r, http.MethodPost, "/email-whitelist", officer, map[string]any{"domain": "@Gov.ME"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var domain models.EmailWhitelistEntry
	testutil.Decode(t, w, &domain)
	assert.Equal(t, "gov.me", domain.Domain)

	w = testutil.Do(r, http.MethodPost, "/email-whitelist", officer, map[string]any{"email": "Ada@Example.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = testutil.Do(r, http.MethodPost, "/email-whitelist", officer, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	check := func(email string) bool {
		t.Helper()
		w := testutil.Do(r, http.MethodGet, "/email-whitelist/check?email="+email, "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var ok bool
		testutil.Decode(t, w, &ok)
		return ok
	}
	assert.True(t, check("mayor@GOV.me"))
	assert.True(t, check("ada@example.com"))
	assert.False(t, check("bob@example.com"))

	w = testutil.Do(r, http.MethodGet, "/email-whitelist/check?email=nonsense", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.Do(r, http.MethodGet, "/email-whitelist", officer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.EmailWhitelistEntry
	testutil.Decode(t, w, &list)
	assert.Len(t, list, 2)

	w = testutil.Do(r, http.MethodDelete, "/email-whitelist/"+domain.ID, officer, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, check("mayor@gov.me"))
}
