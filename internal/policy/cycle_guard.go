package policy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"timer2ticket.app/gateway/internal/domain"
	"timer2ticket.app/gateway/internal/model"
	"timer2ticket.app/gateway/internal/store"
)

// CycleGuard tells apart user changes from echoes of writes the sync engine
// made itself. An object the engine touched within the window is not safe.
type CycleGuard struct {
	mappings    store.MappingStore
	timeEntries store.TimeEntryStore
	window      time.Duration
	now         func() time.Time
}

func NewCycleGuard(mappings store.MappingStore, timeEntries store.TimeEntryStore, window time.Duration) *CycleGuard {
	return &CycleGuard{
		mappings:    mappings,
		timeEntries: timeEntries,
		window:      window,
		now:         time.Now,
	}
}

func (g *CycleGuard) WithClock(now func() time.Time) *CycleGuard {
	cp := *g
	cp.now = now
	return &cp
}

// IsCycleSafe reports whether the event may be forwarded. Objects the engine
// has never seen are safe. Unknown object types are never safe.
func (g *CycleGuard) IsCycleSafe(ctx context.Context, event domain.WebhookEvent, conn *model.Connection) (bool, error) {
	switch event.ObjectType {
	case domain.ObjectTypeIssue, domain.ObjectTypeProject:
		return g.structureSafe(ctx, event, conn)
	case domain.ObjectTypeWorklog:
		return g.worklogSafe(ctx, event)
	default:
		return false, nil
	}
}

func (g *CycleGuard) structureSafe(ctx context.Context, event domain.WebhookEvent, conn *model.Connection) (bool, error) {
	mapping, err := g.mappings.FindByExternalID(ctx, event.ConnectionID, event.ExternalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("finding mapping: %w", err)
	}

	calling := conn.Service(event.ServiceSlot).Name
	return g.outsideWindow(mapping.Counterpart(calling).LastUpdated), nil
}

func (g *CycleGuard) worklogSafe(ctx context.Context, event domain.WebhookEvent) (bool, error) {
	teso, err := g.timeEntries.FindByTimeEntryID(ctx, event.ConnectionID, event.ExternalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("finding time entry synced object: %w", err)
	}
	return g.outsideWindow(teso.LastUpdated), nil
}

func (g *CycleGuard) outsideWindow(lastUpdated time.Time) bool {
	return g.now().Sub(lastUpdated) > g.window
}
