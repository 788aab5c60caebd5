package expenses_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/expenses"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/internal/testutil"
	"github.com/artograd/backend/pkg/apperror"
)

var (
	owner    = authz.Principal{Username: "officer1", Role: models.RoleOfficial}
	supplier = authz.Principal{Username: "artist1", Role: models.RoleArtist}
	stranger = authz.Principal{Username: "artist2", Role: models.RoleArtist}
)

func newService(t *testing.T) (*expenses.Service, *testutil.Records[models.ExpenseReport]) {
	t.Helper()
	artObjects := testutil.NewArtObjectStore()
	artObjects.Put(models.ArtObject{
		ID:       "a1",
		Title:    "Fountain",
		Owner:    &models.UserInfo{ID: "officer1"},
		Supplier: &models.UserInfo{ID: "artist1"},
	})
	store := testutil.NewExpenseStore()
	return expenses.NewService(store, artObjects, testutil.Authorizer(t), zap.NewNop()), store
}

func TestOnlySupplierReportsExpenses(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, owner, &models.ExpenseReport{ArtObjectID: "a1", Amount: 10})
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))
	_, err = svc.Create(ctx, stranger, &models.ExpenseReport{ArtObjectID: "a1", Amount: 10})
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))
	_, err = svc.Create(ctx, supplier, &models.ExpenseReport{ArtObjectID: "missing", Amount: 10})
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
	_, err = svc.Create(ctx, supplier, &models.ExpenseReport{Amount: 10})
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
	_, err = svc.Create(ctx, supplier, &models.ExpenseReport{ArtObjectID: "a1", Amount: -1})
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
	assert.Zero(t, store.Len())

	e, err := svc.Create(ctx, supplier, &models.ExpenseReport{ArtObjectID: "a1", Amount: 250, Summary: "marble"})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Date.IsZero())
}

func TestExpensesReadableByOwnerAndSupplierOnly(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	e, err := svc.Create(ctx, supplier, &models.ExpenseReport{ArtObjectID: "a1", Amount: 250})
	require.NoError(t, err)

	for _, p := range []authz.Principal{owner, supplier} {
		got, err := svc.Get(ctx, p, e.ID)
		require.NoError(t, err)
		assert.Equal(t, 250.0, got.Amount)

		list, err := svc.ListByArtObject(ctx, p, "a1")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	}

	_, err = svc.Get(ctx, stranger, e.ID)
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))
	_, err = svc.ListByArtObject(ctx, authz.Principal{}, "a1")
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))
	_, err = svc.Get(ctx, owner, "missing")
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
}

func TestExpensesListedNewestFirst(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, amount := range []float64{1, 2, 3} {
		_, err := svc.Create(ctx, supplier, &models.ExpenseReport{
			ArtObjectID: "a1", Amount: amount, Date: day.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}

	list, err := svc.ListByArtObject(ctx, owner, "a1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []float64{3, 2, 1}, []float64{list[0].Amount, list[1].Amount, list[2].Amount})
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	e, err := svc.Create(ctx, supplier, &models.ExpenseReport{ArtObjectID: "a1", Amount: 250})
	require.NoError(t, err)

	_, err = svc.Update(ctx, owner, e.ID, &models.ExpenseReport{Amount: 1})
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

	updated, err := svc.Update(ctx, supplier, e.ID, &models.ExpenseReport{ArtObjectID: "elsewhere", Amount: 300})
	require.NoError(t, err)
	assert.Equal(t, "a1", updated.ArtObjectID)
	assert.Equal(t, 300.0, updated.Amount)
	assert.True(t, updated.Date.Equal(e.Date))

	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(svc.Delete(ctx, owner, e.ID)))
	require.NoError(t, svc.Delete(ctx, supplier, e.ID))
	assert.Zero(t, store.Len())
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(svc.Delete(ctx, supplier, e.ID)))
}
