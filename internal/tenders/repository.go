package tenders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/database"
)

// Store persists tenders with their embedded proposals.
type Store interface {
	Insert(ctx context.Context, t *models.Tender) error
	// Get returns database.ErrNotFound for unknown ids and sets t.Version.
	Get(ctx context.Context, id string) (*models.Tender, error)
	// Replace writes t only while the stored version equals t.Version, and
	// advances t.Version. Returns database.ErrVersionConflict otherwise.
	Replace(ctx context.Context, t *models.Tender) error
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, c models.TenderSearchCriteria) ([]models.Tender, error)
	Count(ctx context.Context, c models.TenderSearchCriteria) (int64, error)
	ListByParticipant(ctx context.Context, username string) ([]models.Tender, error)
	ListDueForIdeation(ctx context.Context, now time.Time) ([]models.Tender, error)
}

var sortFields = map[string]string{
	"createdAt":        database.TimeField("createdAt"),
	"modifiedAt":       database.TimeField("modifiedAt"),
	"submissionStart":  database.TimeField("submissionStart"),
	"submissionEnd":    database.TimeField("submissionEnd"),
	"expectedDelivery": database.TimeField("expectedDelivery"),
	"votingEndDate":    database.TimeField("votingEndDate"),
	"title":            "lower(" + database.Field("title") + ")",
	"status":           database.Field("status"),
	"ownerId":          database.Field("ownerId"),
	"locationLeafId":   database.Field("locationLeafId"),
}

// SortableField reports whether tenders can be ordered by name.
func SortableField(name string) bool {
	_, ok := sortFields[name]
	return ok
}

// Repository is the Postgres Store.
type Repository struct {
	coll *database.Collection
}

// NewRepository creates a tender repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{coll: database.NewCollection(pool, "tenders")}
}

func (r *Repository) Insert(ctx context.Context, t *models.Tender) error {
	if err := r.coll.Insert(ctx, t.ID, t); err != nil {
		return err
	}
	t.Version = 1
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.Tender, error) {
	var t models.Tender
	version, err := r.coll.Get(ctx, id, &t)
	if err != nil {
		return nil, err
	}
	t.Version = version
	return &t, nil
}

func (r *Repository) Replace(ctx context.Context, t *models.Tender) error {
	version, err := r.coll.Replace(ctx, t.ID, t, t.Version)
	if err != nil {
		return err
	}
	t.Version = version
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	return r.coll.Delete(ctx, id)
}

func (r *Repository) Search(ctx context.Context, c models.TenderSearchCriteria) ([]models.Tender, error) {
	q := filter(c)
	expr, ok := sortFields[c.SortBy]
	if !ok {
		expr = sortFields[models.DefaultSortBy]
	}
	q.OrderBy(expr, c.Desc()).OrderBy("id", false).Page(c.Page, c.Size)
	return r.find(ctx, q)
}

func (r *Repository) Count(ctx context.Context, c models.TenderSearchCriteria) (int64, error) {
	return r.coll.Count(ctx, filter(c))
}

// ListByParticipant returns tenders the user owns or has a proposal on.
func (r *Repository) ListByParticipant(ctx context.Context, username string) ([]models.Tender, error) {
	proposalOwner, err := json.Marshal([]map[string]string{{"ownerId": username}})
	if err != nil {
		return nil, fmt.Errorf("marshal proposal owner filter: %w", err)
	}
	q := database.NewQuery().
		Where(database.Field("ownerId")+" = %s OR doc->'proposals' @> %s::jsonb", username, string(proposalOwner))
	return r.find(ctx, q)
}

// ListDueForIdeation returns published tenders whose submission window has opened.
func (r *Repository) ListDueForIdeation(ctx context.Context, now time.Time) ([]models.Tender, error) {
	q := database.NewQuery().
		Eq(database.Field("status"), string(models.TenderPublished)).
		Where(database.TimeField("submissionStart")+" <= %s", now).
		OrderBy(database.TimeField("submissionStart"), false)
	return r.find(ctx, q)
}

func (r *Repository) find(ctx context.Context, q *database.Query) ([]models.Tender, error) {
	list, versions, err := database.FindVersioned[models.Tender](ctx, r.coll, q)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Version = versions[i]
	}
	return list, nil
}

func filter(c models.TenderSearchCriteria) *database.Query {
	return database.NewQuery().
		Contains(database.Field("title"), c.Title).
		Eq(database.Field("ownerId"), c.OwnerID).
		In(database.Field("locationLeafId"), c.LocationLeafIDs).
		In(database.Field("status"), c.Statuses)
}
