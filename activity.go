package credentials

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventUserRegistered ActivityEventType = "user.registered"
	ActivityEventLoginSuccess   ActivityEventType = "auth.login.success"
	ActivityEventLoginFailure   ActivityEventType = "auth.login.failure"
	ActivityEventProfileUpdated ActivityEventType = "user.profile.updated"
	ActivityEventUserDeleted    ActivityEventType = "user.deleted"
)

// ActivityEvent captures audit-friendly information about an action.
type ActivityEvent struct {
	EventType  ActivityEventType
	ActorID    string
	UserID     string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing purposes.
// Sinks are best effort: a failing sink never fails the operation.
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

// LoggerActivitySink writes every event to a Logger at info level
type LoggerActivitySink struct {
	Logger Logger
}

// Record implements ActivitySink.
func (s LoggerActivitySink) Record(_ context.Context, event ActivityEvent) error {
	logger := s.Logger
	if logger == nil {
		logger = defLogger{}
	}

	args := []any{
		"event", string(event.EventType),
		"user_id", event.UserID,
		"occurred_at", event.OccurredAt,
	}
	if event.ActorID != "" {
		args = append(args, "actor_id", event.ActorID)
	}
	for k, v := range event.Metadata {
		args = append(args, k, v)
	}

	logger.Info("activity", args...)
	return nil
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
