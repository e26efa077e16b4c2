package services

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/events"
)

// publish emits an event after its transaction committed. A failed publish is
// logged and never undoes the committed change.
func publish(ctx context.Context, publisher events.Publisher, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		slog.Error("event publish failed", "type", event.Type, "key", event.Key, "error", err)
	}
}
