package cities_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/cities"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/internal/testutil"
)

type countingStore struct {
	calls int
	list  []models.City
}

func (s *countingStore) List(context.Context) ([]models.City, error) {
	s.calls++
	return s.list, nil
}

type mapCache struct {
	entries map[string][]byte
	ttl     time.Duration
	broken  bool
}

func (m *mapCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	if m.broken {
		return false, errors.New("connection refused")
	}
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *mapCache) SetJSON(_ context.Context, key string, v any, ttl time.Duration) error {
	if m.broken {
		return errors.New("connection refused")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	m.ttl = ttl
	return nil
}

func TestListIsCachedForAMinute(t *testing.T) {
	store := &countingStore{list: []models.City{{ID: "1", Name: "Bar", Lat: 42.1, Lng: 19.1}}}
	cache := &mapCache{entries: map[string][]byte{}}
	svc := cities.NewService(store, cache, zap.NewNop())

	for i := 0; i < 3; i++ {
		list, err := svc.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bar", list[0].Name)
	}
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, time.Minute, cache.ttl)
}

func TestListFallsBackToStoreWhenCacheFails(t *testing.T) {
	store := &countingStore{list: []models.City{{ID: "1", Name: "Kotor"}}}
	svc := cities.NewService(store, &mapCache{broken: true}, zap.NewNop())

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func TestCitiesEndpointSetsCacheControl(t *testing.T) {
	store := &countingStore{list: []models.City{{ID: "1", Name: "Budva"}}}
	r := testutil.Router(cities.NewHandler(cities.NewService(store, nil, zap.NewNop()), zap.NewNop()).RegisterRoutes)

	w := testutil.Do(r, http.MethodGet, "/cities", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "max-age=60", w.Header().Get("Cache-Control"))
	var list []models.City
	testutil.Decode(t, w, &list)
	assert.Equal(t, "Budva", list[0].Name)
}
