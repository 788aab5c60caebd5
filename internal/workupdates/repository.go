package workupdates

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/database"
)

// Store persists work updates.
type Store interface {
	Insert(ctx context.Context, u *models.WorkUpdate) error
	Get(ctx context.Context, id string) (*models.WorkUpdate, error)
	Replace(ctx context.Context, u *models.WorkUpdate) error
	Delete(ctx context.Context, id string) (bool, error)
	ListByArtObject(ctx context.Context, artObjectID string) ([]models.WorkUpdate, error)
}

// Repository is the Postgres Store.
type Repository struct {
	coll *database.Collection
}

// NewRepository creates a work update repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{coll: database.NewCollection(pool, "work_updates")}
}

func (r *Repository) Insert(ctx context.Context, u *models.WorkUpdate) error {
	return r.coll.Insert(ctx, u.ID, u)
}

func (r *Repository) Get(ctx context.Context, id string) (*models.WorkUpdate, error) {
	var u models.WorkUpdate
	if _, err := r.coll.Get(ctx, id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) Replace(ctx context.Context, u *models.WorkUpdate) error {
	_, err := r.coll.Replace(ctx, u.ID, u, 0)
	return err
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	return r.coll.Delete(ctx, id)
}

func (r *Repository) ListByArtObject(ctx context.Context, artObjectID string) ([]models.WorkUpdate, error) {
	q := database.NewQuery().
		Where(database.Field("artObjectId")+" = %s", artObjectID).
		OrderBy(database.TimeField("date"), true).
		OrderBy("id", false)
	return database.Find[models.WorkUpdate](ctx, r.coll, q)
}
