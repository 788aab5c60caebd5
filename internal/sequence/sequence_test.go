package sequence

import (
	"context"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artograd/backend/pkg/database"
)

func TestArticul(t *testing.T) {
	assert.Equal(t, "000-001", Articul(1))
	assert.Equal(t, "000-999", Articul(999))
	assert.Equal(t, "001-000", Articul(1000))
	assert.Equal(t, "012-345", Articul(12345))
	assert.Equal(t, "1234-567", Articul(1234567))
}

func TestNextConcurrent(t *testing.T) {
	dsn := os.Getenv("ARTOGRAD_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ARTOGRAD_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, dsn, 8, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool))

	gen := NewGenerator(pool)
	name := "test_" + uuid.NewString()
	const n = 50

	var (
		mu     sync.Mutex
		values []int64
		wg     sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := gen.Next(ctx, name)
			assert.NoError(t, err)
			mu.Lock()
			values = append(values, v)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, values, n)
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	for i, v := range values {
		assert.Equal(t, int64(i+1), v)
	}
}
