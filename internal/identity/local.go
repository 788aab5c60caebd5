package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artograd/backend/internal/models"
)

// LocalDirectory keeps users in Postgres for running without a user pool.
type LocalDirectory struct {
	pool *pgxpool.Pool
}

// NewLocalDirectory creates a local directory.
func NewLocalDirectory(pool *pgxpool.Pool) *LocalDirectory {
	return &LocalDirectory{pool: pool}
}

// Create registers a user.
func (d *LocalDirectory) Create(ctx context.Context, username, passwordHash string, attrs []models.UserAttribute) error {
	raw, err := json.Marshal(nonNil(attrs))
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	const q = `INSERT INTO local_users (username, password_hash, attributes) VALUES ($1, $2, $3)`
	if _, err := d.pool.Exec(ctx, q, username, passwordHash, raw); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUserExists
		}
		return fmt.Errorf("insert local user: %w", err)
	}
	return nil
}

// PasswordHash returns the stored bcrypt hash of a user.
func (d *LocalDirectory) PasswordHash(ctx context.Context, username string) (string, error) {
	const q = `SELECT password_hash FROM local_users WHERE username = $1`
	var hash string
	err := d.pool.QueryRow(ctx, q, username).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get password hash: %w", err)
	}
	return hash, nil
}

// GetUser returns the stored attributes plus cognito:username.
func (d *LocalDirectory) GetUser(ctx context.Context, username string) (*models.User, error) {
	const q = `SELECT attributes FROM local_users WHERE username = $1`
	var raw []byte
	err := d.pool.QueryRow(ctx, q, username).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get local user: %w", err)
	}
	user := &models.User{Username: username}
	if err := json.Unmarshal(raw, &user.Attributes); err != nil {
		return nil, fmt.Errorf("unmarshal attributes: %w", err)
	}
	user.Attributes = append(user.Attributes, models.UserAttribute{Name: models.AttrUsername.String(), Value: username})
	return user, nil
}

// UpdateUserAttributes merges attrs into the stored attributes.
func (d *LocalDirectory) UpdateUserAttributes(ctx context.Context, username string, attrs []models.UserAttribute) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT attributes FROM local_users WHERE username = $1 FOR UPDATE`, username).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lock local user: %w", err)
	}
	var existing []models.UserAttribute
	if err := json.Unmarshal(raw, &existing); err != nil {
		return fmt.Errorf("unmarshal attributes: %w", err)
	}
	merged, err := json.Marshal(MergeAttributes(existing, attrs))
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	const q = `UPDATE local_users SET attributes = $2, updated_at = NOW() WHERE username = $1`
	if _, err := tx.Exec(ctx, q, username, merged); err != nil {
		return fmt.Errorf("update local user: %w", err)
	}
	return tx.Commit(ctx)
}

// DeleteUser removes a user.
func (d *LocalDirectory) DeleteUser(ctx context.Context, username string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM local_users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("delete local user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func nonNil(attrs []models.UserAttribute) []models.UserAttribute {
	if attrs == nil {
		return []models.UserAttribute{}
	}
	return attrs
}
