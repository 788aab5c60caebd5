package expenses

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/database"
)

// Store persists expense reports.
type Store interface {
	Insert(ctx context.Context, r *models.ExpenseReport) error
	Get(ctx context.Context, id string) (*models.ExpenseReport, error)
	Replace(ctx context.Context, r *models.ExpenseReport) error
	Delete(ctx context.Context, id string) (bool, error)
	ListByArtObject(ctx context.Context, artObjectID string) ([]models.ExpenseReport, error)
}

// Repository is the Postgres Store.
type Repository struct {
	coll *database.Collection
}

// NewRepository creates an expense report repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{coll: database.NewCollection(pool, "expense_reports")}
}

func (r *Repository) Insert(ctx context.Context, e *models.ExpenseReport) error {
	return r.coll.Insert(ctx, e.ID, e)
}

func (r *Repository) Get(ctx context.Context, id string) (*models.ExpenseReport, error) {
	var e models.ExpenseReport
	if _, err := r.coll.Get(ctx, id, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Replace overwrites the report unconditionally.
func (r *Repository) Replace(ctx context.Context, e *models.ExpenseReport) error {
	_, err := r.coll.Replace(ctx, e.ID, e, 0)
	return err
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	return r.coll.Delete(ctx, id)
}

// ListByArtObject returns the reports of an art object, newest first.
func (r *Repository) ListByArtObject(ctx context.Context, artObjectID string) ([]models.ExpenseReport, error) {
	q := database.NewQuery().
		Where(database.Field("artObjectId")+" = %s", artObjectID).
		OrderBy(database.TimeField("date"), true).
		OrderBy("id", false)
	return database.Find[models.ExpenseReport](ctx, r.coll, q)
}
