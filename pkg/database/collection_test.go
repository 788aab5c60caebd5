package database

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testPool connects to ARTOGRAD_TEST_DATABASE_URL and migrates it, or skips the test.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("ARTOGRAD_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ARTOGRAD_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := NewPostgresPool(ctx, dsn, 4, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	return pool
}

type note struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestMigrationsAreOrdered(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_schema.sql", names[0])
}

func TestCollectionVersionedReplace(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	c := NewCollection(pool, "team")

	id := uuid.NewString()
	require.NoError(t, c.Insert(ctx, id, note{ID: id, Title: "first"}))
	t.Cleanup(func() { _, _ = c.Delete(ctx, id) })

	var got note
	v, err := c.Get(ctx, id, &got)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.Equal(t, "first", got.Title)

	v2, err := c.Replace(ctx, id, note{ID: id, Title: "second"}, v)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v2)

	_, err = c.Replace(ctx, id, note{ID: id, Title: "stale"}, v)
	assert.ErrorIs(t, err, ErrVersionConflict)

	_, err = c.Replace(ctx, uuid.NewString(), note{}, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollectionDeleteIsIdempotent(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	c := NewCollection(pool, "team")

	id := uuid.NewString()
	require.NoError(t, c.Insert(ctx, id, note{ID: id}))

	removed, err := c.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = c.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = c.Get(ctx, id, &note{})
	assert.ErrorIs(t, err, ErrNotFound)
}
