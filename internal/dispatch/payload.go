package dispatch

import (
	"time"

	"github.com/invopop/jsonschema"

	"timer2ticket.app/gateway/internal/domain"
)

// Payload is the body of POST {core}/webhooks.
type Payload struct {
	ObjectType   domain.ObjectType  `json:"objectType" jsonschema:"enum=issue,enum=project,enum=worklog"`
	EventKind    domain.EventKind   `json:"eventKind" jsonschema:"enum=created,enum=updated,enum=deleted"`
	ExternalID   string             `json:"externalId" jsonschema:"minLength=1"`
	ConnectionID string             `json:"connectionId" jsonschema:"minLength=1"`
	ServiceSlot  domain.ServiceSlot `json:"serviceSlot" jsonschema:"enum=1,enum=2"`
	OccurredAt   time.Time          `json:"occurredAt"`
	Enrichment   *domain.Enrichment `json:"enrichment,omitempty"`
}

func NewPayload(event domain.WebhookEvent) Payload {
	return Payload{
		ObjectType:   event.ObjectType,
		EventKind:    event.EventKind,
		ExternalID:   event.ExternalID,
		ConnectionID: event.ConnectionID,
		ServiceSlot:  event.ServiceSlot,
		OccurredAt:   event.OccurredAt.UTC(),
		Enrichment:   event.Enrichment,
	}
}

// PayloadSchema describes the contract core validates incoming events against.
func PayloadSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	s := r.Reflect(&Payload{})
	s.Title = "Timer2Ticket webhook event"
	return s
}
