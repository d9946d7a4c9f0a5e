package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"timer2ticket.app/gateway/core/config"
	"timer2ticket.app/gateway/internal/model"
	"timer2ticket.app/gateway/internal/store"
)

// SubscriptionChecker gates webhook processing on the owner's billing tier.
type SubscriptionChecker interface {
	Allows(ctx context.Context, conn *model.Connection) (bool, error)
}

type subscriptionChecker struct {
	memberships store.MembershipStore
	cfg         config.SubscriptionConfig
	now         func() time.Time
}

func NewSubscriptionChecker(memberships store.MembershipStore, cfg config.SubscriptionConfig) SubscriptionChecker {
	return &subscriptionChecker{
		memberships: memberships,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Allows always passes in non-commercial builds.
func (s *subscriptionChecker) Allows(ctx context.Context, conn *model.Connection) (bool, error) {
	if !s.cfg.IsCommercial {
		return true, nil
	}

	info, err := s.memberships.GetByUserID(ctx, conn.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("fetching membership: %w", err)
	}

	return info.HasMembership(s.cfg.WebhookMembership, s.now()), nil
}
