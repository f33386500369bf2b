package usecase

import (
	"context"
	"io"
	"time"

	"jobhub/internal/domain/user"
	"jobhub/internal/notification"

	"github.com/google/uuid"
)

// Actor is the authenticated caller, taken from the access token.
type Actor struct {
	UserID uuid.UUID
	Role   user.Role
}

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

// EventPublisher pushes a realtime event to one user. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, userID uuid.UUID, eventType string, data any) error
}

type Notifier interface {
	SendApplicationDecision(ctx context.Context, in notification.DecisionInput) notification.Result
	SendInterviewInvitation(ctx context.Context, in notification.InterviewInput) notification.Result
	SendInterviewRescheduled(ctx context.Context, in notification.InterviewInput) notification.Result
	SendInterviewCancelled(ctx context.Context, in notification.InterviewInput) notification.Result
}

type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Realtime event names.
const (
	EventApplicationStatusChanged = "application_status_changed"
	EventInterviewInvited         = "interview_invited"
	EventInterviewRescheduled     = "interview_rescheduled"
	EventInterviewCancelled       = "interview_cancelled"
	EventInterviewCompleted       = "interview_completed"
	EventInterviewResponded       = "interview_responded"
)
