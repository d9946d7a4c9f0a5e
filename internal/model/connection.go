package model

import (
	"time"

	"timer2ticket.app/gateway/internal/domain"
)

// ServiceName is the tool name stored on a synced service.
type ServiceName string

const (
	ServiceNameJira       ServiceName = "Jira"
	ServiceNameTogglTrack ServiceName = "Toggl Track"
	ServiceNameRedmine    ServiceName = "Redmine"
)

// IsTimeTracker reports whether the service only holds time entries and never
// owns project or task structure.
func (n ServiceName) IsTimeTracker() bool {
	return n == ServiceNameTogglTrack
}

// SyncStatus is the state of one sync pipeline. The zero value means the job never ran.
type SyncStatus string

const (
	SyncStatusScheduled  SyncStatus = "SCHEDULED"
	SyncStatusInProgress SyncStatus = "IN_PROGRESS"
	SyncStatusSuccess    SyncStatus = "SUCCESS"
	SyncStatusError      SyncStatus = "ERROR"
)

type SyncJobDefinition struct {
	Status      SyncStatus `json:"status"`
	LastJobTime *time.Time `json:"last_job_time,omitempty"`
}

type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ServiceConfig holds the credentials of one side of a connection. Which
// fields are set depends on the service.
type ServiceConfig struct {
	UserID string `json:"userId,omitempty"`
	APIKey string `json:"apiKey,omitempty"`

	// Jira
	Domain    string `json:"domain,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`

	// Redmine
	APIPoint string `json:"apiPoint,omitempty"`

	// Toggl Track
	Workspace *Workspace `json:"workspace,omitempty"`
}

type SyncedService struct {
	Name   ServiceName   `json:"name"`
	Config ServiceConfig `json:"config"`
}

// Connection is the read-only projection of a connection the gateway needs.
// A value is a snapshot for one delivery and must not be cached across deliveries.
type Connection struct {
	ID               string
	UserID           string
	IsActive         bool
	ConfigSyncJob    SyncJobDefinition
	TimeEntrySyncJob SyncJobDefinition
	FirstService     SyncedService
	SecondService    SyncedService
	DeletedAt        *time.Time
}

// SlotFor returns the slot occupied by the named service. Matching is by name
// against the first service only, so a connection pairing the same tool on
// both sides always resolves to the first slot.
func (c *Connection) SlotFor(name ServiceName) domain.ServiceSlot {
	if c.FirstService.Name == name {
		return domain.ServiceSlotFirst
	}
	return domain.ServiceSlotSecond
}

func (c *Connection) Service(slot domain.ServiceSlot) SyncedService {
	if slot == domain.ServiceSlotSecond {
		return c.SecondService
	}
	return c.FirstService
}

// PrimarySlot is the slot that owns project and task structure: the issue
// tracker side. If neither or both sides are time trackers it is the first slot.
func (c *Connection) PrimarySlot() domain.ServiceSlot {
	if c.FirstService.Name.IsTimeTracker() && !c.SecondService.Name.IsTimeTracker() {
		return domain.ServiceSlotSecond
	}
	return domain.ServiceSlotFirst
}

// HasService reports whether either side of the connection is the named service.
func (c *Connection) HasService(name ServiceName) bool {
	return c.FirstService.Name == name || c.SecondService.Name == name
}

// SameServiceOnBothSides flags connections where slot matching by name is ambiguous.
func (c *Connection) SameServiceOnBothSides() bool {
	return c.FirstService.Name == c.SecondService.Name
}

// LastJobFor returns the sync job gating the given object type.
func (c *Connection) LastJobFor(objectType domain.ObjectType) SyncJobDefinition {
	if objectType == domain.ObjectTypeWorklog {
		return c.TimeEntrySyncJob
	}
	return c.ConfigSyncJob
}
