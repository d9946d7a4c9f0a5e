package dispatch

import (
	"context"
	"log/slog"

	"timer2ticket.app/gateway/common/logger"
	"timer2ticket.app/gateway/internal/domain"
)

// Dispatcher forwards accepted events to core exactly once. Failures are
// logged and dropped: the provider has already been acknowledged and the
// next scheduled sync repairs whatever was missed.
type Dispatcher struct {
	client CoreClient
	logger *slog.Logger
}

func NewDispatcher(client CoreClient, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{client: client, logger: logger}
}

// Dispatch reports whether core accepted the event.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.WebhookEvent) bool {
	span := logger.StartSpan(ctx, "dispatch.post_webhook")
	defer span.End()
	ctx = span.Context()

	if err := d.client.PostWebhook(ctx, NewPayload(event)); err != nil {
		span.RecordError(err)
		d.logger.ErrorContext(ctx, "dispatch to core failed", "error", err)
		return false
	}

	d.logger.InfoContext(ctx, "event dispatched to core", "service_slot", int(event.ServiceSlot))
	return true
}
