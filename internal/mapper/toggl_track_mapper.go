package mapper

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"timer2ticket.app/gateway/internal/domain"
)

const (
	togglPingPayload    = "ping"
	togglTimeEntryModel = "time_entry"
)

type TogglTrackEventMapper struct{}

func NewTogglTrackEventMapper() *TogglTrackEventMapper {
	return &TogglTrackEventMapper{}
}

type togglWebhookPayload struct {
	Payload        json.RawMessage `json:"payload"`
	ValidationCode string          `json:"validation_code"`
	Timestamp      string          `json:"timestamp"`
	Metadata       *togglMetadata  `json:"metadata"`

	// Some deliveries carry these at the top level instead of in metadata.
	Action      string `json:"action"`
	TimeEntryID flexID `json:"time_entry_id"`
}

type togglMetadata struct {
	Action      string `json:"action"`
	Model       string `json:"model"`
	TimeEntryID flexID `json:"time_entry_id"`
	WorkspaceID flexID `json:"workspace_id"`
	EventUserID flexID `json:"event_user_id"`
}

type togglTimeEntry struct {
	ID        flexID  `json:"id"`
	Duration  *int64  `json:"duration"`
	TagIDs    []int64 `json:"tag_ids"`
	ProjectID *int64  `json:"project_id"`
}

// settled reports whether the entry has stopped changing. Toggl Track sends
// several deltas while an entry is edited; only the final state is forwarded.
func (te togglTimeEntry) settled() bool {
	hasDuration := te.Duration != nil && *te.Duration > 0
	hasTags := len(te.TagIDs) > 0
	hasProject := te.ProjectID != nil && *te.ProjectID != 0
	return hasDuration || hasTags || hasProject
}

// IsPing detects the subscription validation request and returns the code
// that has to be echoed back.
func IsPing(body []byte) (string, bool) {
	var payload togglWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	var p string
	if err := json.Unmarshal(payload.Payload, &p); err != nil || p != togglPingPayload {
		return "", false
	}
	if payload.ValidationCode == "" {
		return "", false
	}
	return payload.ValidationCode, true
}

func (m *TogglTrackEventMapper) Map(ctx context.Context, body []byte, receivedAt time.Time) (*domain.ProviderEvent, error) {
	var payload togglWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, malformed("decoding toggl track payload: %v", err)
	}

	if _, ok := IsPing(body); ok {
		return nil, malformed("ping carries no event")
	}

	action, timeEntryID, entity := payload.Action, payload.TimeEntryID, ""
	if md := payload.Metadata; md != nil {
		if md.Action != "" {
			action = md.Action
		}
		if md.TimeEntryID != "" {
			timeEntryID = md.TimeEntryID
		}
		entity = md.Model
	}
	if entity != "" && entity != togglTimeEntryModel {
		return nil, malformed("unsupported toggl track model %q", entity)
	}

	eventKind, ok := domain.ParseEventKind(action)
	if !ok {
		return nil, malformed("unsupported toggl track action %q", action)
	}

	var entry togglTimeEntry
	trimmed := bytes.TrimSpace(payload.Payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, malformed("time entry payload is missing")
	}
	if err := json.Unmarshal(trimmed, &entry); err != nil {
		return nil, malformed("decoding time entry: %v", err)
	}

	if timeEntryID == "" {
		timeEntryID = entry.ID
	}
	if timeEntryID == "" {
		return nil, malformed("missing time_entry_id")
	}

	if !entry.settled() {
		return nil, ErrIncompleteTimeEntry
	}

	return &domain.ProviderEvent{
		ObjectType: domain.ObjectTypeWorklog,
		EventKind:  eventKind,
		ExternalID: timeEntryID.String(),
		OccurredAt: togglOccurredAt(payload.Timestamp, receivedAt),
	}, nil
}

func togglOccurredAt(ts string, receivedAt time.Time) time.Time {
	if ts == "" {
		return receivedAt
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return receivedAt
	}
	return t.UTC()
}
