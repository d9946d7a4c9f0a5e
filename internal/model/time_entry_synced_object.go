package model

import "time"

type ServiceTimeEntryObject struct {
	Service     ServiceName `json:"service"`
	TimeEntryID string      `json:"time_entry_id"`
	IsOrigin    bool        `json:"is_origin"`
}

// TimeEntrySyncedObject ties together the copies of one time entry across the
// services of a connection.
type TimeEntrySyncedObject struct {
	ID                      int64                    `json:"id"`
	ConnectionID            string                   `json:"connection_id"`
	LastUpdated             time.Time                `json:"last_updated"`
	Date                    *time.Time               `json:"date,omitempty"`
	Archived                bool                     `json:"archived"`
	ServiceTimeEntryObjects []ServiceTimeEntryObject `json:"service_time_entry_objects"`
}
