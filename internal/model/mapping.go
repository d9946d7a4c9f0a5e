package model

import "time"

// MappingObject is one side of a mapping. LastUpdated is the last time the
// sync engine wrote to this object.
type MappingObject struct {
	ID          string      `json:"id"`
	Service     ServiceName `json:"service"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	LastUpdated time.Time   `json:"last_updated"`
}

// Mapping pairs an object on the first service (Objects[0]) with its
// counterpart on the second service (Objects[1]).
type Mapping struct {
	ID              int64            `json:"id"`
	ConnectionID    string           `json:"connection_id"`
	Name            string           `json:"name"`
	PrimaryObjectID string           `json:"primary_object_id"`
	Objects         [2]MappingObject `json:"objects"`
}

// Counterpart returns the side that does not belong to the calling service.
func (m *Mapping) Counterpart(calling ServiceName) MappingObject {
	if m.Objects[0].Service == calling {
		return m.Objects[1]
	}
	return m.Objects[0]
}
