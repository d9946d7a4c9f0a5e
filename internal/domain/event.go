package domain

import (
	"fmt"
	"time"
)

// ObjectType is the kind of object a webhook reports a change for.
type ObjectType string

const (
	ObjectTypeIssue   ObjectType = "issue"
	ObjectTypeProject ObjectType = "project"
	ObjectTypeWorklog ObjectType = "worklog" // a time entry, whatever the provider calls it
)

// EventKind is what happened to the object.
type EventKind string

const (
	EventKindCreated EventKind = "created"
	EventKindUpdated EventKind = "updated"
	EventKindDeleted EventKind = "deleted"
)

// ServiceSlot is the side of a connection that emitted an event.
// Serialized as the service number core expects (1 or 2).
type ServiceSlot int

const (
	ServiceSlotFirst  ServiceSlot = 1
	ServiceSlotSecond ServiceSlot = 2
)

func ParseObjectType(s string) (ObjectType, bool) {
	switch ObjectType(s) {
	case ObjectTypeIssue, ObjectTypeProject, ObjectTypeWorklog:
		return ObjectType(s), true
	}
	return "", false
}

func ParseEventKind(s string) (EventKind, bool) {
	switch EventKind(s) {
	case EventKindCreated, EventKindUpdated, EventKindDeleted:
		return EventKind(s), true
	}
	return "", false
}

func (t ObjectType) IsStructural() bool {
	return t == ObjectTypeIssue || t == ObjectTypeProject
}

func (s ServiceSlot) Valid() bool {
	return s == ServiceSlotFirst || s == ServiceSlotSecond
}

func (s ServiceSlot) String() string {
	switch s {
	case ServiceSlotFirst:
		return "first"
	case ServiceSlotSecond:
		return "second"
	}
	return fmt.Sprintf("slot(%d)", int(s))
}

// ProviderEvent is what an adapter extracts from a raw payload. It is not yet
// tied to a connection slot; Bind turns it into a WebhookEvent.
type ProviderEvent struct {
	ObjectType ObjectType
	EventKind  EventKind
	ExternalID string
	OccurredAt time.Time

	// ActorAccountID is the provider account that caused the change. Only Jira reports it.
	ActorAccountID string

	// IssueID is set for Jira worklogs and used to fetch issue details before dispatch.
	IssueID string
}

// WebhookEvent is the canonical, provider-agnostic event forwarded to core.
type WebhookEvent struct {
	ObjectType   ObjectType
	EventKind    EventKind
	ExternalID   string
	OccurredAt   time.Time
	ConnectionID string
	ServiceSlot  ServiceSlot

	ActorAccountID string
	IssueID        string
	Enrichment     *Enrichment
}

// Enrichment carries provider data fetched after acceptance, e.g. the issue a
// Jira worklog belongs to.
type Enrichment struct {
	IssueID      string `json:"issueId,omitempty"`
	IssueKey     string `json:"issueKey,omitempty"`
	IssueSummary string `json:"issueSummary,omitempty"`
	ProjectID    string `json:"projectId,omitempty"`
}

func (e ProviderEvent) Bind(connectionID string, slot ServiceSlot) WebhookEvent {
	return WebhookEvent{
		ObjectType:     e.ObjectType,
		EventKind:      e.EventKind,
		ExternalID:     e.ExternalID,
		OccurredAt:     e.OccurredAt,
		ConnectionID:   connectionID,
		ServiceSlot:    slot,
		ActorAccountID: e.ActorAccountID,
		IssueID:        e.IssueID,
	}
}
