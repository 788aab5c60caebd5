// Package worker runs the background jobs of cmd/worker: relaying queued
// emails to SQS and advancing tender statuses on a schedule.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/queue"
)

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, jobID string, email queue.EmailPayload) error
}

// SQSAPI is the part of the SQS client the sender uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSSender publishes emails to a FIFO queue drained by the mail service.
// The job id doubles as deduplication id so retried jobs are not sent twice.
type SQSSender struct {
	client   SQSAPI
	queueURL string
	logger   *zap.Logger
}

// NewSQSSender creates a sender for queueURL.
func NewSQSSender(client SQSAPI, queueURL string, logger *zap.Logger) *SQSSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQSSender{client: client, queueURL: queueURL, logger: logger}
}

type sqsEmail struct {
	RecipientEmail string `json:"recipientEmail"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}

func (s *SQSSender) Send(ctx context.Context, jobID string, email queue.EmailPayload) error {
	body, err := json.Marshal(sqsEmail{
		RecipientEmail: email.RecipientEmail,
		Subject:        email.Subject,
		Body:           email.Body,
	})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}
	group := email.MessageGroupID
	if group == "" {
		group = "default"
	}
	out, err := s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:               aws.String(s.queueURL),
		MessageBody:            aws.String(string(body)),
		MessageGroupId:         aws.String(group),
		MessageDeduplicationId: aws.String(jobID),
	})
	if err != nil {
		return fmt.Errorf("sqs send: %w", err)
	}
	s.logger.Info("email sent to mail queue",
		zap.String("job_id", jobID),
		zap.String("message_id", aws.ToString(out.MessageId)),
		zap.String("group", group),
	)
	return nil
}

// LogSender only logs emails. Used when no mail queue is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a logging sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, jobID string, email queue.EmailPayload) error {
	s.logger.Info("email (not sent, no mail queue configured)",
		zap.String("job_id", jobID),
		zap.String("to", email.RecipientEmail),
		zap.String("subject", email.Subject),
	)
	return nil
}

// JobQueue is the Redis queue as the relay sees it.
type JobQueue interface {
	Dequeue(ctx context.Context, key string) (*queue.Job, error)
	Retry(ctx context.Context, key string, job *queue.Job) error
}

// Recorder stores the outcome of each delivery attempt.
type Recorder interface {
	Record(ctx context.Context, el *models.EmailLog) error
}

// MailRelay moves email jobs from the Redis queue to a Sender.
type MailRelay struct {
	queue    JobQueue
	sender   Sender
	recorder Recorder
	backoff  time.Duration
	logger   *zap.Logger
}

// NewMailRelay creates a relay that waits queue.RetryBackoff after failures.
func NewMailRelay(q JobQueue, sender Sender, logger *zap.Logger) *MailRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MailRelay{queue: q, sender: sender, backoff: queue.RetryBackoff, logger: logger}
}

// WithBackoff overrides the delay after a failed job or dequeue.
func (m *MailRelay) WithBackoff(d time.Duration) *MailRelay {
	m.backoff = d
	return m
}

// WithRecorder logs every delivery attempt to r.
func (m *MailRelay) WithRecorder(r Recorder) *MailRelay {
	m.recorder = r
	return m
}

// Process delivers one email job.
func (m *MailRelay) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeEmail {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if payload.RecipientEmail == "" {
		return fmt.Errorf("job %s has no recipient", job.ID)
	}
	err := m.sender.Send(ctx, job.ID, payload)
	m.record(ctx, job, payload, err)
	return err
}

func (m *MailRelay) record(ctx context.Context, job *queue.Job, payload queue.EmailPayload, sendErr error) {
	if m.recorder == nil {
		return
	}
	now := time.Now().UTC()
	el := &models.EmailLog{
		JobID:          job.ID,
		TenderID:       payload.TenderID,
		EmailType:      payload.MessageGroupID,
		RecipientEmail: payload.RecipientEmail,
		Subject:        payload.Subject,
		Status:         models.EmailLogStatusSent,
		Attempt:        job.Attempt,
		SentAt:         &now,
		CreatedAt:      now,
	}
	if sendErr != nil {
		el.Status = models.EmailLogStatusFailed
		el.SentAt = nil
		el.ErrorMessage = sendErr.Error()
	}
	if err := m.recorder.Record(ctx, el); err != nil {
		m.logger.Warn("email log write failed", zap.String("job_id", job.ID), zap.Error(err))
	}
}

// Run dequeues and delivers email jobs until ctx is done. Failed jobs are
// retried through the queue and land in the DLQ after queue.MaxRetries.
func (m *MailRelay) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("mail relay stopping")
			return
		default:
		}

		job, err := m.queue.Dequeue(ctx, queue.QueueEmails)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			m.logger.Warn("dequeue error", zap.Error(err))
			m.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		m.logger.Debug("processing job", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
		if err := m.Process(ctx, job); err != nil {
			m.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := m.queue.Retry(ctx, queue.QueueEmails, job); reErr != nil {
				m.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			m.sleep(ctx)
		}
	}
}

func (m *MailRelay) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(m.backoff):
	}
}
