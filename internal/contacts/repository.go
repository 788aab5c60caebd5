package contacts

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/database"
)

// Store persists social media contacts.
type Store interface {
	Insert(ctx context.Context, c *models.SocialMediaContact) error
	Get(ctx context.Context, id string) (*models.SocialMediaContact, error)
	Replace(ctx context.Context, c *models.SocialMediaContact) error
	Delete(ctx context.Context, id string) (bool, error)
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]models.SocialMediaContact, error)
}

// Repository is the Postgres Store.
type Repository struct {
	coll *database.Collection
}

// NewRepository creates a contact repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{coll: database.NewCollection(pool, "contacts")}
}

func (r *Repository) Insert(ctx context.Context, c *models.SocialMediaContact) error {
	return r.coll.Insert(ctx, c.ID, c)
}

func (r *Repository) Get(ctx context.Context, id string) (*models.SocialMediaContact, error) {
	var c models.SocialMediaContact
	if _, err := r.coll.Get(ctx, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) Replace(ctx context.Context, c *models.SocialMediaContact) error {
	_, err := r.coll.Replace(ctx, c.ID, c, 0)
	return err
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	return r.coll.Delete(ctx, id)
}

func (r *Repository) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]models.SocialMediaContact, error) {
	q := database.NewQuery().Where(database.Field("userId")+" = %s", userID)
	if activeOnly {
		q.Where("(doc->>'active')::boolean")
	}
	q.OrderBy("lower("+database.Field("contactName")+")", false).OrderBy("id", false)
	return database.Find[models.SocialMediaContact](ctx, r.coll, q)
}
