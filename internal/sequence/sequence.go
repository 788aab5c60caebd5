// Package sequence issues named, strictly increasing counters from Postgres.
package sequence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ArtObjectSequence numbers art object payment records.
const ArtObjectSequence = "art_object_sequence"

// Generator hands out counter values. The upsert runs under the row lock, so
// concurrent callers never see the same value.
type Generator struct {
	pool *pgxpool.Pool
}

// NewGenerator creates a sequence generator.
func NewGenerator(pool *pgxpool.Pool) *Generator {
	return &Generator{pool: pool}
}

// Next increments the named counter and returns the new value. The first value is 1.
func (g *Generator) Next(ctx context.Context, name string) (int64, error) {
	const q = `INSERT INTO database_sequences (id, seq) VALUES ($1, 1)
		ON CONFLICT (id) DO UPDATE SET seq = database_sequences.seq + 1
		RETURNING seq`
	var seq int64
	if err := g.pool.QueryRow(ctx, q, name).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next %s: %w", name, err)
	}
	return seq, nil
}

// Articul formats a counter value as a payment reference, e.g. 1042 -> "001-042".
func Articul(seq int64) string {
	return fmt.Sprintf("%03d-%03d", seq/1000, seq%1000)
}
