package store

import (
	"context"
	"fmt"

	"timer2ticket.app/gateway/core/db"
	"timer2ticket.app/gateway/internal/model"
)

type mappingStore struct {
	queries db.DBTX
}

func newMappingStore(queries db.DBTX) MappingStore {
	return &mappingStore{queries: queries}
}

const findMappingByExternalID = `
SELECT m.id, m.connection_id, m.name, m.primary_object_id,
       o.position, o.external_id, o.service, o.name, o.object_type, o.last_updated
FROM mappings m
JOIN mapping_objects o ON o.mapping_id = m.id
WHERE m.id = (
    SELECT mapping_id FROM mapping_objects
    WHERE connection_id = $1 AND external_id = $2
    ORDER BY mapping_id
    LIMIT 1
)
ORDER BY o.position`

func (s *mappingStore) FindByExternalID(ctx context.Context, connectionID, externalID string) (*model.Mapping, error) {
	rows, err := s.queries.Query(ctx, findMappingByExternalID, connectionID, externalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		mapping model.Mapping
		seen    [2]bool
	)
	for rows.Next() {
		var (
			position int16
			obj      model.MappingObject
			service  string
		)
		if err := rows.Scan(
			&mapping.ID,
			&mapping.ConnectionID,
			&mapping.Name,
			&mapping.PrimaryObjectID,
			&position,
			&obj.ID,
			&service,
			&obj.Name,
			&obj.Type,
			&obj.LastUpdated,
		); err != nil {
			return nil, err
		}
		if position < 0 || position > 1 {
			return nil, fmt.Errorf("mapping %d has object at invalid position %d", mapping.ID, position)
		}
		obj.Service = model.ServiceName(service)
		mapping.Objects[position] = obj
		seen[position] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !seen[0] && !seen[1] {
		return nil, ErrNotFound
	}
	if !seen[0] || !seen[1] {
		return nil, fmt.Errorf("mapping %d is missing one of its objects", mapping.ID)
	}
	return &mapping, nil
}
