// Package cities serves the read-only cities catalogue.
package cities

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/database"
	"github.com/artograd/backend/pkg/response"
)

const (
	cacheKey = "catalogue:cities"
	cacheTTL = 60 * time.Second
)

// Store reads the catalogue.
type Store interface {
	List(ctx context.Context) ([]models.City, error)
}

// Cache holds the encoded catalogue between reads.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// Repository is the Postgres Store.
type Repository struct {
	coll *database.Collection
}

// NewRepository creates a cities repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{coll: database.NewCollection(pool, "cities")}
}

func (r *Repository) List(ctx context.Context) ([]models.City, error) {
	q := database.NewQuery().OrderBy(database.Field("name"), false).OrderBy("id", false)
	return database.Find[models.City](ctx, r.coll, q)
}

// Service reads through the cache. A nil cache disables caching.
type Service struct {
	store  Store
	cache  Cache
	logger *zap.Logger
}

// NewService creates a cities service.
func NewService(store Store, cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cache: cache, logger: logger}
}

// List returns every city sorted by name.
func (s *Service) List(ctx context.Context) ([]models.City, error) {
	if s.cache != nil {
		var cached []models.City
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("cities cache read failed", zap.Error(err))
		}
		if hit {
			return cached, nil
		}
	}
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, list, cacheTTL); err != nil {
			s.logger.Warn("cities cache write failed", zap.Error(err))
		}
	}
	return list, nil
}

// Handler serves GET /cities.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a cities handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.CacheFor(c, cacheTTL)
	response.OK(c, list)
}

// RegisterRoutes mounts the cities route on r.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/cities", h.List)
}
