package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"timer2ticket.app/gateway/core/db"
	"timer2ticket.app/gateway/internal/model"
)

type membershipStore struct {
	queries db.DBTX
}

func newMembershipStore(queries db.DBTX) MembershipStore {
	return &membershipStore{queries: queries}
}

const getMembershipInfo = `
SELECT user_id, current_membership, current_membership_finishes
FROM membership_infos
WHERE user_id = $1`

func (s *membershipStore) GetByUserID(ctx context.Context, userID string) (*model.MembershipInfo, error) {
	var (
		info     model.MembershipInfo
		finishes pgtype.Timestamptz
	)
	err := s.queries.QueryRow(ctx, getMembershipInfo, userID).Scan(&info.UserID, &info.CurrentMembership, &finishes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	info.CurrentMembershipFinishes = pgTimestamptzToTime(finishes)
	return &info, nil
}
