package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/events"
)

// StartAuditWorker subscribes an audit logger to every auth event type.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	audit := logger.Named("audit")
	handler := func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event", string(event.Type)),
			zap.String("username", event.Username),
			zap.Time("occurred_at", event.OccurredAt),
		}
		for key, value := range event.Metadata {
			fields = append(fields, zap.String(key, value))
		}
		audit.Info("auth event", fields...)
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventLoginSucceeded,
		events.EventTokenRefreshed,
		events.EventPasswordChanged,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
