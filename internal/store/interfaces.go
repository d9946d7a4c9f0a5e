package store

import (
	"context"
	"errors"

	"timer2ticket.app/gateway/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ConnectionStore reads connections. Soft-deleted connections are reported as ErrNotFound.
type ConnectionStore interface {
	GetByID(ctx context.Context, id string) (*model.Connection, error)
}

// MappingStore reads object mappings of a connection.
type MappingStore interface {
	// FindByExternalID returns the mapping whose either side has the given object id.
	FindByExternalID(ctx context.Context, connectionID, externalID string) (*model.Mapping, error)
}

// TimeEntryStore reads time entry synced objects (TESOs).
type TimeEntryStore interface {
	// FindByTimeEntryID returns the TESO holding the given time entry id for any of the services.
	FindByTimeEntryID(ctx context.Context, connectionID, timeEntryID string) (*model.TimeEntrySyncedObject, error)
}

// MembershipStore reads billing membership of connection owners.
type MembershipStore interface {
	GetByUserID(ctx context.Context, userID string) (*model.MembershipInfo, error)
}
