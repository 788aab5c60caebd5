package artobjects

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/database"
)

// Store persists art objects.
type Store interface {
	Insert(ctx context.Context, a *models.ArtObject) error
	Get(ctx context.Context, id string) (*models.ArtObject, error)
	Replace(ctx context.Context, a *models.ArtObject) error
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, c models.ArtObjectSearchCriteria) ([]models.ArtObject, error)
	Count(ctx context.Context, c models.ArtObjectSearchCriteria) (int64, error)
	// ListByParticipant returns every art object owned or supplied by username.
	ListByParticipant(ctx context.Context, username string) ([]models.ArtObject, error)
}

var sortFields = map[string]string{
	"createdAt":      database.TimeField("createdAt"),
	"modifiedAt":     database.TimeField("modifiedAt"),
	"deliveryDate":   database.TimeField("deliveryDate"),
	"title":          "lower(" + database.Field("title") + ")",
	"status":         database.Field("status"),
	"locationLeafId": database.Field("locationLeafId"),
}

// SortableField reports whether art objects can be ordered by name.
func SortableField(name string) bool {
	_, ok := sortFields[name]
	return ok
}

// Repository is the Postgres Store.
type Repository struct {
	coll *database.Collection
}

// NewRepository creates an art object repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{coll: database.NewCollection(pool, "art_objects")}
}

func (r *Repository) Insert(ctx context.Context, a *models.ArtObject) error {
	if err := r.coll.Insert(ctx, a.ID, a); err != nil {
		return err
	}
	a.Version = 1
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.ArtObject, error) {
	var a models.ArtObject
	version, err := r.coll.Get(ctx, id, &a)
	if err != nil {
		return nil, err
	}
	a.Version = version
	return &a, nil
}

func (r *Repository) Replace(ctx context.Context, a *models.ArtObject) error {
	version, err := r.coll.Replace(ctx, a.ID, a, a.Version)
	if err != nil {
		return err
	}
	a.Version = version
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	return r.coll.Delete(ctx, id)
}

func (r *Repository) Search(ctx context.Context, c models.ArtObjectSearchCriteria) ([]models.ArtObject, error) {
	q := filter(c)
	expr, ok := sortFields[c.SortBy]
	if !ok {
		expr = sortFields[models.DefaultSortBy]
	}
	q.OrderBy(expr, c.Desc()).OrderBy("id", false).Page(c.Page, c.Size)
	list, versions, err := database.FindVersioned[models.ArtObject](ctx, r.coll, q)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Version = versions[i]
	}
	return list, nil
}

func (r *Repository) Count(ctx context.Context, c models.ArtObjectSearchCriteria) (int64, error) {
	return r.coll.Count(ctx, filter(c))
}

func (r *Repository) ListByParticipant(ctx context.Context, username string) ([]models.ArtObject, error) {
	q := filter(models.ArtObjectSearchCriteria{UserID: username}).OrderBy("id", false)
	list, versions, err := database.FindVersioned[models.ArtObject](ctx, r.coll, q)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Version = versions[i]
	}
	return list, nil
}

func filter(c models.ArtObjectSearchCriteria) *database.Query {
	q := database.NewQuery().
		Contains(database.Field("title"), c.Title).
		In(database.Field("locationLeafId"), c.LocationLeafIDs).
		In(database.Field("status"), c.Statuses)
	if c.UserID != "" {
		q.Where("doc->'owner'->>'id' = %s OR doc->'supplier'->>'id' = %s", c.UserID, c.UserID)
	}
	return q
}
