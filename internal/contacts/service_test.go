package contacts_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/contacts"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/internal/testutil"
	"github.com/artograd/backend/pkg/apperror"
)

var (
	officer1 = authz.Principal{Username: "officer1", Role: models.RoleOfficial}
	officer2 = authz.Principal{Username: "officer2", Role: models.RoleOfficial}
)

func newService(t *testing.T) *contacts.Service {
	t.Helper()
	return contacts.NewService(testutil.NewContactStore(), testutil.Authorizer(t), zap.NewNop())
}

func TestCreateContactForSelf(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, officer1, &models.SocialMediaContact{ContactName: "Vijesti", ContactEmail: "desk@vijesti.me", Active: true})
	require.NoError(t, err)
	assert.Equal(t, "officer1", c.UserID)
	assert.NotEmpty(t, c.ID)

	_, err = svc.Create(ctx, officer1, &models.SocialMediaContact{UserID: "officer2", ContactName: "x", ContactEmail: "x@y.me"})
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

	_, err = svc.Create(ctx, authz.Principal{}, &models.SocialMediaContact{ContactName: "x", ContactEmail: "x@y.me"})
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

	_, err = svc.Create(ctx, officer1, &models.SocialMediaContact{ContactName: "x", ContactEmail: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}

func TestContactsArePrivate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, officer1, &models.SocialMediaContact{ContactName: "RTCG", ContactEmail: "news@rtcg.me"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, officer2, c.ID)
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))
	_, err = svc.Update(ctx, officer2, c.ID, &models.SocialMediaContact{ContactName: "x", ContactEmail: "x@y.me"})
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(svc.Delete(ctx, officer2, c.ID)))
	_, err = svc.ListByUser(ctx, officer2, "officer1")
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

	_, err = svc.Get(ctx, officer1, "missing")
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))

	updated, err := svc.Update(ctx, officer1, c.ID, &models.SocialMediaContact{UserID: "officer2", ContactName: "RTCG", ContactEmail: "desk@rtcg.me", Active: true})
	require.NoError(t, err)
	assert.Equal(t, "officer1", updated.UserID)
	assert.Equal(t, "desk@rtcg.me", updated.ContactEmail)

	list, err := svc.ListByUser(ctx, officer1, "officer1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, officer1, c.ID))
	_, err = svc.Get(ctx, officer1, c.ID)
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
}

func TestActiveSkipsInactiveContacts(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, officer1, &models.SocialMediaContact{ContactName: "A", ContactEmail: "a@x.me", Active: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, officer1, &models.SocialMediaContact{ContactName: "B", ContactEmail: "b@x.me"})
	require.NoError(t, err)

	active, err := svc.Active(ctx, "officer1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "A", active[0].ContactName)
}
