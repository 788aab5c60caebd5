package expenses_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/expenses"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/internal/testutil"
)

func TestExpenseReportScenario(t *testing.T) {
	svc, _ := newService(t)
	r := testutil.Router(expenses.NewHandler(svc, zap.NewNop()).RegisterRoutes)
	artist := testutil.Token(t, "artist1", models.RoleArtist)
	officer := testutil.Token(t, "officer1", models.RoleOfficial)

	w := testutil.Do(r, http.MethodPost, "/expensereports", artist,
		map[string]any{"artObjectId": "a1", "amount": 99.5, "date": "2026-04-01T00:00:00Z"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.ExpenseReport
	testutil.Decode(t, w, &created)

	w = testutil.Do(r, http.MethodGet, "/expensereports/artobject/a1", officer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.ExpenseReport
	testutil.Decode(t, w, &list)
	assert.Len(t, list, 1)

	w = testutil.Do(r, http.MethodGet, "/expensereports/"+created.ID, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.Do(r, http.MethodPost, "/expensereports", artist, map[string]any{"artObjectId": "a1", "date": "yesterday"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.Do(r, http.MethodDelete, "/expensereports/"+created.ID, artist, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
