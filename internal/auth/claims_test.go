package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artograd/backend/internal/models"
)

func TestNewClaims(t *testing.T) {
	c, err := NewClaims("officer1", []string{"officials"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleOfficial, c.Role)
	assert.True(t, c.IsOfficer)
	assert.False(t, c.IsArtist)

	c, err = NewClaims("citizen1", nil)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAnonymousOrCitizen, c.Role)
	assert.False(t, c.Anonymous())

	_, err = NewClaims("both", []string{"Artists", "Officials"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPrincipalDefaultsRole(t *testing.T) {
	p := Claims{}.Principal()
	assert.Empty(t, p.Username)
	assert.Equal(t, models.RoleAnonymousOrCitizen, p.Role)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)

	tok, ok = BearerToken("bearer  xyz ")
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
	_, ok = BearerToken("")
	assert.False(t, ok)
}
