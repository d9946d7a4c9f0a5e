package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"timer2ticket.app/gateway/core/db"
	"timer2ticket.app/gateway/internal/model"
)

type connectionStore struct {
	queries db.DBTX
}

func newConnectionStore(queries db.DBTX) ConnectionStore {
	return &connectionStore{queries: queries}
}

const getConnection = `
SELECT id, user_id, is_active,
       config_sync_status, config_last_job_time,
       time_entry_sync_status, time_entry_last_job_time,
       first_service, second_service, deleted_at
FROM connections
WHERE id = $1 AND deleted_at IS NULL`

type connectionRow struct {
	ID                   string
	UserID               string
	IsActive             bool
	ConfigSyncStatus     *string
	ConfigLastJobTime    pgtype.Timestamptz
	TimeEntrySyncStatus  *string
	TimeEntryLastJobTime pgtype.Timestamptz
	FirstService         model.SyncedService
	SecondService        model.SyncedService
	DeletedAt            pgtype.Timestamptz
}

func (s *connectionStore) GetByID(ctx context.Context, id string) (*model.Connection, error) {
	var row connectionRow
	err := s.queries.QueryRow(ctx, getConnection, id).Scan(
		&row.ID,
		&row.UserID,
		&row.IsActive,
		&row.ConfigSyncStatus,
		&row.ConfigLastJobTime,
		&row.TimeEntrySyncStatus,
		&row.TimeEntryLastJobTime,
		&row.FirstService,
		&row.SecondService,
		&row.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toConnectionModel(row), nil
}

func toConnectionModel(row connectionRow) *model.Connection {
	return &model.Connection{
		ID:       row.ID,
		UserID:   row.UserID,
		IsActive: row.IsActive,
		ConfigSyncJob: model.SyncJobDefinition{
			Status:      toSyncStatus(row.ConfigSyncStatus),
			LastJobTime: pgTimestamptzToTime(row.ConfigLastJobTime),
		},
		TimeEntrySyncJob: model.SyncJobDefinition{
			Status:      toSyncStatus(row.TimeEntrySyncStatus),
			LastJobTime: pgTimestamptzToTime(row.TimeEntryLastJobTime),
		},
		FirstService:  row.FirstService,
		SecondService: row.SecondService,
		DeletedAt:     pgTimestamptzToTime(row.DeletedAt),
	}
}

func toSyncStatus(s *string) model.SyncStatus {
	if s == nil {
		return ""
	}
	return model.SyncStatus(*s)
}

// pgTimestamptzToTime converts pgtype.Timestamptz to *time.Time
func pgTimestamptzToTime(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}
