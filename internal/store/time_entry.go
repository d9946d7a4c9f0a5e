package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"timer2ticket.app/gateway/core/db"
	"timer2ticket.app/gateway/internal/model"
)

type timeEntryStore struct {
	queries db.DBTX
}

func newTimeEntryStore(queries db.DBTX) TimeEntryStore {
	return &timeEntryStore{queries: queries}
}

const findSyncedObjectByTimeEntryID = `
SELECT t.id, t.connection_id, t.last_updated, t.entry_date, t.archived
FROM time_entry_synced_objects t
WHERE t.id = (
    SELECT synced_object_id FROM service_time_entry_objects
    WHERE connection_id = $1 AND time_entry_id = $2
    ORDER BY synced_object_id
    LIMIT 1
)`

const listServiceTimeEntryObjects = `
SELECT service, time_entry_id, is_origin
FROM service_time_entry_objects
WHERE synced_object_id = $1
ORDER BY service`

func (s *timeEntryStore) FindByTimeEntryID(ctx context.Context, connectionID, timeEntryID string) (*model.TimeEntrySyncedObject, error) {
	var (
		teso      model.TimeEntrySyncedObject
		entryDate pgtype.Date
	)
	err := s.queries.QueryRow(ctx, findSyncedObjectByTimeEntryID, connectionID, timeEntryID).Scan(
		&teso.ID,
		&teso.ConnectionID,
		&teso.LastUpdated,
		&entryDate,
		&teso.Archived,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if entryDate.Valid {
		d := entryDate.Time
		teso.Date = &d
	}

	rows, err := s.queries.Query(ctx, listServiceTimeEntryObjects, teso.ID)
	if err != nil {
		return nil, err
	}
	objects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ServiceTimeEntryObject, error) {
		var (
			obj     model.ServiceTimeEntryObject
			service string
		)
		err := row.Scan(&service, &obj.TimeEntryID, &obj.IsOrigin)
		obj.Service = model.ServiceName(service)
		return obj, err
	})
	if err != nil {
		return nil, err
	}
	teso.ServiceTimeEntryObjects = objects

	return &teso, nil
}
