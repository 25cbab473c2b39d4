// Package events publishes domain notifications on Redis pub/sub.
//
// Publishing is fire-and-forget: a failed publish is logged and never fails the
// operation that produced the event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"fresherjobs/marketplace-service/internal/model"
)

// Event types double as the Redis channel names.
const (
	TypeApplicationCreated       = "EVENT_APPLICATION_CREATED"
	TypeApplicationStatusChanged = "EVENT_APPLICATION_STATUS_CHANGED"
	TypeRecruiterApproved        = "EVENT_RECRUITER_APPROVED"
)

// Notification is the payload delivered to subscribers. RecipientID is the
// account the message is addressed to.
type Notification struct {
	Type          string    `json:"type"`
	RecipientID   string    `json:"recipientId"`
	Message       string    `json:"message"`
	ApplicationID string    `json:"applicationId,omitempty"`
	JobID         string    `json:"jobId,omitempty"`
	Status        string    `json:"status,omitempty"`
	At            time.Time `json:"at"`
}

// Publisher delivers notifications.
type Publisher interface {
	Publish(ctx context.Context, n Notification)
}

// Nop discards every notification. Used when REDIS_URL is empty.
type Nop struct{}

func (Nop) Publish(context.Context, Notification) {}

// RedisPublisher publishes each notification as JSON on the channel named by its type.
type RedisPublisher struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewRedisPublisher returns a publisher over rdb.
func NewRedisPublisher(rdb *redis.Client, logger *slog.Logger) *RedisPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPublisher{rdb: rdb, logger: logger}
}

// Publish sends n. Errors are logged, not returned.
func (p *RedisPublisher) Publish(ctx context.Context, n Notification) {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	payload, err := json.Marshal(n)
	if err != nil {
		p.logger.WarnContext(ctx, "marshal event failed", "type", n.Type, "err", err)
		return
	}
	if err := p.rdb.Publish(ctx, n.Type, payload).Err(); err != nil {
		p.logger.WarnContext(ctx, "publish "+n.Type+" failed", "err", err)
	}
}

// ApplicationCreated is addressed to the recruiter who owns the job.
func ApplicationCreated(app *model.Application, job *model.Job, applicantName string) Notification {
	return Notification{
		Type:          TypeApplicationCreated,
		RecipientID:   job.OwnerID,
		Message:       fmt.Sprintf("New application received for job: %s from %s", job.Title, applicantName),
		ApplicationID: app.ID,
		JobID:         job.ID,
		Status:        string(app.Status),
	}
}

// StatusChanged is addressed to the applicant.
func StatusChanged(app *model.Application, jobTitle string) Notification {
	return Notification{
		Type:          TypeApplicationStatusChanged,
		RecipientID:   app.SeekerID,
		Message:       StatusMessage(jobTitle, app.Status),
		ApplicationID: app.ID,
		JobID:         app.JobID,
		Status:        string(app.Status),
	}
}

// RecruiterApproved is addressed to the approved recruiter.
func RecruiterApproved(recruiterID string) Notification {
	return Notification{
		Type:        TypeRecruiterApproved,
		RecipientID: recruiterID,
		Message:     "Your recruiter account has been approved. Your job postings are now visible to candidates.",
	}
}

// StatusMessage is the applicant-facing text for a status change.
func StatusMessage(jobTitle string, status model.ApplicationStatus) string {
	switch status {
	case model.StatusShortlisted:
		return "Congratulations! You have been shortlisted for: " + jobTitle
	case model.StatusHired:
		return "Great news! You have been hired for: " + jobTitle
	case model.StatusRejected:
		return "We regret to inform you that your application for " + jobTitle + " was not selected."
	default:
		return "Your application status for " + jobTitle + " has been updated to: " + string(status)
	}
}
