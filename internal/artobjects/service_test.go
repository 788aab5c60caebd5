package artobjects_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/artobjects"
	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/identity"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/internal/testutil"
	"github.com/artograd/backend/pkg/apperror"
)

var (
	officer1 = authz.Principal{Username: "officer1", Role: models.RoleOfficial}
	officer2 = authz.Principal{Username: "officer2", Role: models.RoleOfficial}
	artist1  = authz.Principal{Username: "artist1", Role: models.RoleArtist}
	anon     = authz.Principal{}
)

type fixture struct {
	svc     *artobjects.Service
	store   *testutil.ArtObjectStore
	tenders *testutil.TenderStore
	seq     *testutil.Sequence
	dir     *testutil.Directory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := testutil.NewDirectory()
	dir.Add("officer1", models.RoleOfficial,
		"given_name", "Olga", "family_name", "Petrova", "custom:organization", "City Hall")
	dir.Add("officer2", models.RoleOfficial)
	dir.Add("artist1", models.RoleArtist,
		"given_name", "Ada", "family_name", "Lovelace",
		"custom:bank_benefit_name", "Ada Lovelace",
		"custom:bank_benefit_bank", "First Bank",
		"custom:bank_account", "40817",
		"custom:bank_iban", "ME25505000012345678951",
		"custom:bank_swift", "CKBCMEPG")

	f := &fixture{
		store:   testutil.NewArtObjectStore(),
		tenders: testutil.NewTenderStore(),
		seq:     testutil.NewSequence(),
		dir:     dir,
	}
	f.svc = artobjects.NewService(f.store, f.tenders, f.seq,
		identity.NewProfiles(dir, zap.NewNop()), testutil.Authorizer(t), zap.NewNop())

	delivery := time.Date(2027, 5, 1, 0, 0, 0, 0, time.UTC)
	f.tenders.Put(models.Tender{
		ID:               "t1",
		Title:            "Fountain",
		Description:      "A fountain for the square",
		Category:         []string{"sculpture"},
		LocationLeafID:   "bar",
		ExpectedDelivery: &delivery,
		OwnerID:          "officer1",
		Status:           models.TenderSelection,
		Proposals: []models.Proposal{{
			ID:            "p1",
			Title:         "Water lily",
			Files:         []models.FileInfo{{Path: "https://cdn/x.png", Type: models.FileTypeImage}},
			Cover:         &models.FileInfo{Path: "https://cdn/cover.png"},
			EstimatedCost: 12000,
			OwnerID:       "artist1",
		}},
	})
	return f
}

func TestCreateConvertsTenderAndWinningProposal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, officer1, "t1", "p1")
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "Fountain", a.Title)
	assert.Equal(t, "A fountain for the square", a.Description)
	assert.Equal(t, []string{"sculpture"}, a.Category)
	assert.Equal(t, "bar", a.LocationLeafID)
	require.NotNil(t, a.DeliveryDate)
	assert.Equal(t, 2027, a.DeliveryDate.Year())
	assert.Len(t, a.Files, 1)
	assert.Equal(t, "https://cdn/cover.png", a.Cover.Path)
	assert.Equal(t, models.ArtObjectStatusNew, a.Status)
	assert.Equal(t, &models.TenderRef{ID: "t1", Title: "Fountain"}, a.Tender)
	assert.Equal(t, "p1", a.ProposalID)
	assert.Equal(t, 12000.0, a.Budget.InitialEstimate)
	assert.Equal(t, 12000.0, a.Budget.FundraisingTarget)

	assert.Equal(t, "officer1", a.OwnerID())
	assert.Equal(t, "Olga Petrova", a.Owner.Name)
	assert.Equal(t, "City Hall", a.Owner.Organization)
	assert.Equal(t, "artist1", a.SupplierID())
	assert.Equal(t, "Ada Lovelace", a.Supplier.Name)

	require.NotNil(t, a.Payment)
	assert.Equal(t, "000-001", a.Payment.Articul)
	assert.Equal(t, "First Bank", a.Payment.BeneficiaryBank)
	assert.Equal(t, "ME25505000012345678951", a.Payment.IBAN)
	assert.Equal(t, "CKBCMEPG", a.Payment.SWIFT)

	tender, err := f.tenders.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, tender.ArtObjectID)
	assert.Equal(t, "p1", tender.WinnerProposalID)
}

func TestCreateTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, officer1, "t1", "p1")
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, officer1, "t1", "p1")
	assert.Equal(t, http.StatusConflict, apperror.StatusOf(err))
	assert.Equal(t, 1, f.store.Len())
}

func TestConcurrentCreatesYieldOneArtObject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(ctx, officer1, "t1", "p1")
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.Equal(t, http.StatusConflict, apperror.StatusOf(err))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, f.store.Len())
}

func TestCreateChecksExistenceBeforeOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, officer2, "missing", "p1")
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))

	_, err = f.svc.Create(ctx, officer2, "t1", "missing")
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))

	_, err = f.svc.Create(ctx, officer2, "t1", "p1")
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

	_, err = f.svc.Create(ctx, artist1, "t1", "p1")
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

	_, err = f.svc.Create(ctx, anon, "t1", "p1")
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

	assert.Zero(t, f.store.Len())
}

func TestCreateReleasesTenderWhenInsertFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.FailInsert = errors.New("disk full")

	_, err := f.svc.Create(ctx, officer1, "t1", "p1")
	require.Error(t, err)

	tender, err := f.tenders.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, tender.ArtObjectID)

	f.store.FailInsert = nil
	_, err = f.svc.Create(ctx, officer1, "t1", "p1")
	assert.NoError(t, err)
}

func TestArticulsIncreaseAcrossTenders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.tenders.Put(models.Tender{
		ID: "t2", Title: "Bench", OwnerID: "officer1", Status: models.TenderSelection,
		Proposals: []models.Proposal{{ID: "p2", OwnerID: "artist1"}},
	})

	first, err := f.svc.Create(ctx, officer1, "t1", "p1")
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, officer1, "t2", "p2")
	require.NoError(t, err)

	assert.Equal(t, "000-001", first.Payment.Articul)
	assert.Equal(t, "000-002", second.Payment.Articul)
}

func TestUpdateKeepsProvenanceAndArticul(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, officer1, "t1", "p1")
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, officer1, a.ID, &models.ArtObject{
		ID:       "other",
		Title:    "Fountain of Bar",
		Status:   "IN_PROGRESS",
		Owner:    &models.UserInfo{ID: "intruder"},
		Supplier: &models.UserInfo{ID: "intruder"},
		Payment:  &models.PaymentInfo{Articul: "999-999", IBAN: "NEW"},
	})
	require.NoError(t, err)

	assert.Equal(t, a.ID, updated.ID)
	assert.Equal(t, "Fountain of Bar", updated.Title)
	assert.Equal(t, "IN_PROGRESS", updated.Status)
	assert.Equal(t, "officer1", updated.OwnerID())
	assert.Equal(t, "artist1", updated.SupplierID())
	assert.Equal(t, "000-001", updated.Payment.Articul)
	assert.Equal(t, "NEW", updated.Payment.IBAN)
	assert.Equal(t, a.Tender, updated.Tender)
	assert.True(t, updated.CreatedAt.Equal(a.CreatedAt))
	assert.True(t, updated.ModifiedAt.After(a.ModifiedAt))
}

func TestUpdateRestrictedToOwningOfficer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, officer1, "t1", "p1")
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, artist1, a.ID, &models.ArtObject{Title: "x"})
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

	_, err = f.svc.Update(ctx, officer2, a.ID, &models.ArtObject{Title: "x"})
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

	_, err = f.svc.Update(ctx, officer1, "missing", &models.ArtObject{Title: "x"})
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))

	_, err = f.svc.Update(ctx, officer1, a.ID, &models.ArtObject{Title: " "})
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}

func TestPatchCopiesOnlySetFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, officer1, "t1", "p1")
	require.NoError(t, err)

	status := "INSTALLED"
	patched, err := f.svc.Patch(ctx, officer1, a.ID, &models.ArtObjectPatch{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "INSTALLED", patched.Status)
	assert.Equal(t, "Fountain", patched.Title)
	assert.Equal(t, "000-001", patched.Payment.Articul)
	assert.Len(t, patched.Files, 1)
}

func TestPatchRequiresOfficerRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, officer1, "t1", "p1")
	require.NoError(t, err)

	title := "Mine now"
	_, err = f.svc.Patch(ctx, artist1, a.ID, &models.ArtObjectPatch{Title: &title})
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

	_, err = f.svc.Patch(ctx, officer2, a.ID, &models.ArtObjectPatch{Title: &title})
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))
}

func TestDeleteFreesTenderForConversion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, officer1, "t1", "p1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(f.svc.Delete(ctx, officer2, a.ID)))

	require.NoError(t, f.svc.Delete(ctx, officer1, a.ID))
	require.NoError(t, f.svc.Delete(ctx, officer1, a.ID))

	_, err = f.svc.Get(ctx, a.ID)
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))

	tender, err := f.tenders.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, tender.ArtObjectID)

	again, err := f.svc.Create(ctx, officer1, "t1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "000-002", again.Payment.Articul)
}

func TestSearchByParticipantAndCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, officer1, "t1", "p1")
	require.NoError(t, err)
	f.store.Put(models.ArtObject{ID: "other", Title: "Mural", Status: "NEW", Owner: &models.UserInfo{ID: "officer2"}})

	list, err := f.svc.Search(ctx, models.ArtObjectSearchCriteria{UserID: "artist1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Fountain", list[0].Title)

	n, err := f.svc.Count(ctx, models.ArtObjectSearchCriteria{Statuses: []string{"new"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = f.svc.Count(ctx, models.ArtObjectSearchCriteria{Title: "mur"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = f.svc.Search(ctx, models.ArtObjectSearchCriteria{Paging: models.Paging{SortBy: "budget"}})
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}

func TestPropagateProfileRewritesOwnerAndSupplier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, officer1, "t1", "p1")
	require.NoError(t, err)

	n, err := f.svc.PropagateProfile(ctx, "artist1", models.UserInfo{ID: "artist1", Name: "Ada King"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada King", got.Supplier.Name)
	assert.Equal(t, "Olga Petrova", got.Owner.Name)
}

func TestPropagateProfileCoversEveryObject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	total := models.MaxPageSize*10 + 5
	for i := 0; i < total; i++ {
		f.store.Put(models.ArtObject{
			ID:       fmt.Sprintf("a%04d", i),
			Title:    "Mural",
			Owner:    &models.UserInfo{ID: "officer1", Name: "Olga Petrova"},
			Supplier: &models.UserInfo{ID: "artist1", Name: "Ada Lovelace"},
		})
	}
	f.store.Put(models.ArtObject{ID: "other", Owner: &models.UserInfo{ID: "officer2"}})

	n, err := f.svc.PropagateProfile(ctx, "artist1", models.UserInfo{ID: "artist1", Name: "Ada King"})
	require.NoError(t, err)
	assert.Equal(t, total, n)

	last, err := f.svc.Get(ctx, fmt.Sprintf("a%04d", total-1))
	require.NoError(t, err)
	assert.Equal(t, "Ada King", last.Supplier.Name)

	other, err := f.svc.Get(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, other.Supplier)
}
