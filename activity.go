package users

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventUserCreated     ActivityEventType = "user.created"
	ActivityEventUserUpdated     ActivityEventType = "user.updated"
	ActivityEventUserDeleted     ActivityEventType = "user.deleted"
	ActivityEventUserConfirmed   ActivityEventType = "user.confirmed"
	ActivityEventPasswordChanged ActivityEventType = "user.password.changed"
	ActivityEventPasswordReset   ActivityEventType = "user.password.reset"
	ActivityEventAuthSuccess     ActivityEventType = "auth.token.success"
	ActivityEventAuthFailure     ActivityEventType = "auth.token.failure"
)

// ActivityEvent captures audit-friendly information about an action.
// Metadata never carries credentials or generated secrets.
type ActivityEvent struct {
	EventType  ActivityEventType
	ActorID    uuid.UUID
	UserID     uuid.UUID
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}

func newActivityEvent(eventType ActivityEventType, actorID, userID uuid.UUID, metadata map[string]any) ActivityEvent {
	return ActivityEvent{
		EventType:  eventType,
		ActorID:    actorID,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}
}
