package team

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/database"
)

// Store persists team mates.
type Store interface {
	Insert(ctx context.Context, m *models.TeamMate) error
	Get(ctx context.Context, id string) (*models.TeamMate, error)
	Replace(ctx context.Context, m *models.TeamMate) error
	Delete(ctx context.Context, id string) (bool, error)
	ListActive(ctx context.Context) ([]models.TeamMate, error)
}

// Repository is the Postgres Store.
type Repository struct {
	coll *database.Collection
}

// NewRepository creates a team repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{coll: database.NewCollection(pool, "team")}
}

func (r *Repository) Insert(ctx context.Context, m *models.TeamMate) error {
	return r.coll.Insert(ctx, m.ID, m)
}

func (r *Repository) Get(ctx context.Context, id string) (*models.TeamMate, error) {
	var m models.TeamMate
	if _, err := r.coll.Get(ctx, id, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) Replace(ctx context.Context, m *models.TeamMate) error {
	_, err := r.coll.Replace(ctx, m.ID, m, 0)
	return err
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	return r.coll.Delete(ctx, id)
}

// ListActive returns the active team mates ordered by index.
func (r *Repository) ListActive(ctx context.Context) ([]models.TeamMate, error) {
	q := database.NewQuery().
		Where("(doc->>'active')::boolean").
		OrderBy("(doc->>'index')::int", false).
		OrderBy("id", false)
	return database.Find[models.TeamMate](ctx, r.coll, q)
}
