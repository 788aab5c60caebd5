package whitelist

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/database"
)

// Store persists whitelist entries.
type Store interface {
	Insert(ctx context.Context, e *models.EmailWhitelistEntry) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]models.EmailWhitelistEntry, error)
	Matches(ctx context.Context, email, domain string) (bool, error)
}

// Repository is the Postgres Store.
type Repository struct {
	coll *database.Collection
}

// NewRepository creates a whitelist repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{coll: database.NewCollection(pool, "email_whitelist")}
}

func (r *Repository) Insert(ctx context.Context, e *models.EmailWhitelistEntry) error {
	return r.coll.Insert(ctx, e.ID, e)
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	return r.coll.Delete(ctx, id)
}

func (r *Repository) List(ctx context.Context) ([]models.EmailWhitelistEntry, error) {
	q := database.NewQuery().
		OrderBy("lower(coalesce("+database.Field("domain")+", ''))", false).
		OrderBy("lower(coalesce("+database.Field("email")+", ''))", false)
	return database.Find[models.EmailWhitelistEntry](ctx, r.coll, q)
}

// Matches reports whether email or domain is listed. Both arguments are lower case.
func (r *Repository) Matches(ctx context.Context, email, domain string) (bool, error) {
	q := database.NewQuery().Where(
		"lower("+database.Field("email")+") = %s OR lower("+database.Field("domain")+") = %s", email, domain)
	n, err := r.coll.Count(ctx, q)
	return n > 0, err
}
