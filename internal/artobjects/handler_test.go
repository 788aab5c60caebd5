package artobjects_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/artobjects"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/internal/testutil"
)

func TestArtObjectScenario(t *testing.T) {
	f := newFixture(t)
	r := testutil.Router(artobjects.NewHandler(f.svc, zap.NewNop()).RegisterRoutes)
	officer := testutil.Token(t, "officer1", models.RoleOfficial)
	artist := testutil.Token(t, "artist1", models.RoleArtist)

	w := testutil.Do(r, http.MethodPost, "/artobjects?tenderId=t1", officer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.Do(r, http.MethodPost, "/artobjects?tenderId=t1&winnerProposalId=p1", artist, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.Do(r, http.MethodPost, "/artobjects?tenderId=t1&winnerProposalId=p1", officer, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.ArtObject
	testutil.Decode(t, w, &created)
	assert.Equal(t, "000-001", created.Payment.Articul)

	w = testutil.Do(r, http.MethodPost, "/artobjects?tenderId=t1&winnerProposalId=p1", officer, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = testutil.Do(r, http.MethodGet, "/artobjects/"+created.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutil.Do(r, http.MethodPatch, "/artobjects/"+created.ID, officer, map[string]any{"status": "INSTALLED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var patched models.ArtObject
	testutil.Decode(t, w, &patched)
	assert.Equal(t, "INSTALLED", patched.Status)
	assert.Equal(t, "Fountain", patched.Title)

	w = testutil.Do(r, http.MethodGet, "/artobjects/search?userId=artist1&statuses=installed", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.ArtObject
	testutil.Decode(t, w, &list)
	assert.Len(t, list, 1)

	w = testutil.Do(r, http.MethodGet, "/artobjects/count?userId=officer2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var n int64
	testutil.Decode(t, w, &n)
	assert.Zero(t, n)

	w = testutil.Do(r, http.MethodDelete, "/artobjects/"+created.ID, artist, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.Do(r, http.MethodDelete, "/artobjects/"+created.ID, officer, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.Do(r, http.MethodGet, "/artobjects/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArtObjectUpdateRejectsMalformedBody(t *testing.T) {
	f := newFixture(t)
	r := testutil.Router(artobjects.NewHandler(f.svc, zap.NewNop()).RegisterRoutes)

	w := testutil.Do(r, http.MethodPut, "/artobjects/a1", testutil.Token(t, "officer1", models.RoleOfficial),
		map[string]any{"deliveryDate": "soon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
