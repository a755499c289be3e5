package events

import (
	"context"
	"log/slog"
)

// RegisterAuditSubscriber logs every session and access event, giving the
// portal a flat audit trail without a dedicated store.
func RegisterAuditSubscriber(bus *EventBus, logger *slog.Logger) {
	handler := func(ctx context.Context, event Event) error {
		logger.Info("audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}

	for _, eventType := range []string{
		EventTypeInternalLogin,
		EventTypeCorporateLogin,
		EventTypeLogout,
		EventTypeAccessVerified,
	} {
		bus.Subscribe(eventType, handler)
	}
}
