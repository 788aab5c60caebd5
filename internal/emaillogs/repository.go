// Package emaillogs stores the delivery attempts of queued emails.
package emaillogs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artograd/backend/internal/models"
)

// Repository handles email_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email logs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts a log entry, filling its id and creation time when empty.
func (r *Repository) Record(ctx context.Context, el *models.EmailLog) error {
	if el.ID == "" {
		el.ID = uuid.New().String()
	}
	if el.CreatedAt.IsZero() {
		el.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO email_logs (id, job_id, tender_id, email_type, recipient_email, subject, status, attempt, sent_at, error_message, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8, $9, NULLIF($10, ''), $11)`
	_, err := r.pool.Exec(ctx, q, el.ID, el.JobID, el.TenderID, el.EmailType, el.RecipientEmail,
		el.Subject, el.Status, el.Attempt, el.SentAt, el.ErrorMessage, el.CreatedAt)
	return err
}

// ListByTender returns the log entries of a tender's emails, newest first.
func (r *Repository) ListByTender(ctx context.Context, tenderID string) ([]models.EmailLog, error) {
	const q = `SELECT id, job_id, tender_id, email_type, recipient_email, subject, status, attempt, sent_at, error_message, created_at
		FROM email_logs
		WHERE tender_id = $1
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, tenderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.EmailLog{}
	for rows.Next() {
		var el models.EmailLog
		var tender, subject, errMsg *string
		if err := rows.Scan(&el.ID, &el.JobID, &tender, &el.EmailType, &el.RecipientEmail, &subject,
			&el.Status, &el.Attempt, &el.SentAt, &errMsg, &el.CreatedAt); err != nil {
			return nil, err
		}
		if tender != nil {
			el.TenderID = *tender
		}
		if subject != nil {
			el.Subject = *subject
		}
		if errMsg != nil {
			el.ErrorMessage = *errMsg
		}
		list = append(list, el)
	}
	return list, rows.Err()
}
