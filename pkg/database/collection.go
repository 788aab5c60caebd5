package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no document has the requested id.
	ErrNotFound = errors.New("document not found")
	// ErrVersionConflict is returned when a conditional write lost against a concurrent one.
	ErrVersionConflict = errors.New("document version conflict")
)

// Collection stores JSON documents keyed by id in a table of
// (id TEXT PRIMARY KEY, doc JSONB, version BIGINT).
type Collection struct {
	pool  *pgxpool.Pool
	table string
}

// NewCollection binds a collection to its table.
func NewCollection(pool *pgxpool.Pool, table string) *Collection {
	return &Collection{pool: pool, table: table}
}

// Insert stores a new document with version 1.
func (c *Collection) Insert(ctx context.Context, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s document: %w", c.table, err)
	}
	q := `INSERT INTO ` + c.table + ` (id, doc, version) VALUES ($1, $2, 1)`
	if _, err := c.pool.Exec(ctx, q, id, raw); err != nil {
		return fmt.Errorf("insert %s: %w", c.table, err)
	}
	return nil
}

// Get loads a document into dst and returns its version.
func (c *Collection) Get(ctx context.Context, id string, dst any) (int64, error) {
	q := `SELECT doc, version FROM ` + c.table + ` WHERE id = $1`
	var raw []byte
	var version int64
	err := c.pool.QueryRow(ctx, q, id).Scan(&raw, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", c.table, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return 0, fmt.Errorf("unmarshal %s document: %w", c.table, err)
	}
	return version, nil
}

// Replace overwrites a document. With expected > 0 the write only succeeds
// while the stored version still equals expected. Returns the new version.
func (c *Collection) Replace(ctx context.Context, id string, doc any, expected int64) (int64, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("marshal %s document: %w", c.table, err)
	}
	q := `UPDATE ` + c.table + ` SET doc = $2, version = version + 1 WHERE id = $1 RETURNING version`
	args := []any{id, raw}
	if expected > 0 {
		q = `UPDATE ` + c.table + ` SET doc = $2, version = version + 1 WHERE id = $1 AND version = $3 RETURNING version`
		args = append(args, expected)
	}
	var version int64
	err = c.pool.QueryRow(ctx, q, args...).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		if expected > 0 {
			exists, existsErr := c.Exists(ctx, id)
			if existsErr != nil {
				return 0, existsErr
			}
			if exists {
				return 0, ErrVersionConflict
			}
		}
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("replace %s: %w", c.table, err)
	}
	return version, nil
}

// Exists reports whether a document with id is stored.
func (c *Collection) Exists(ctx context.Context, id string) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM ` + c.table + ` WHERE id = $1)`
	var ok bool
	if err := c.pool.QueryRow(ctx, q, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists %s: %w", c.table, err)
	}
	return ok, nil
}

// Delete removes a document. Deleting an absent id is not an error.
func (c *Collection) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := c.pool.Exec(ctx, `DELETE FROM `+c.table+` WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", c.table, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count returns the number of documents matching q; ordering and paging are ignored.
func (c *Collection) Count(ctx context.Context, q *Query) (int64, error) {
	sql := `SELECT COUNT(*) FROM ` + c.table + q.WhereSQL()
	var n int64
	if err := c.pool.QueryRow(ctx, sql, q.Args()...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c.table, err)
	}
	return n, nil
}

// Find decodes every document matching q.
func Find[T any](ctx context.Context, c *Collection, q *Query) ([]T, error) {
	docs, _, err := FindVersioned[T](ctx, c, q)
	return docs, err
}

// FindVersioned is Find that also returns each document's version.
func FindVersioned[T any](ctx context.Context, c *Collection, q *Query) ([]T, []int64, error) {
	sql := `SELECT doc, version FROM ` + c.table + q.WhereSQL() + q.TailSQL()
	rows, err := c.pool.Query(ctx, sql, q.Args()...)
	if err != nil {
		return nil, nil, fmt.Errorf("find %s: %w", c.table, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	var versions []int64
	for rows.Next() {
		var raw []byte
		var version int64
		if err := rows.Scan(&raw, &version); err != nil {
			return nil, nil, fmt.Errorf("scan %s: %w", c.table, err)
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, nil, fmt.Errorf("unmarshal %s document: %w", c.table, err)
		}
		out = append(out, doc)
		versions = append(versions, version)
	}
	return out, versions, rows.Err()
}
