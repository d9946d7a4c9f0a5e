package policy

import (
	"time"

	"timer2ticket.app/gateway/internal/domain"
	"timer2ticket.app/gateway/internal/model"
)

// Rule names the check that decided the fate of an event.
type Rule string

const (
	RuleAccepted                   Rule = "accepted"
	RuleInactiveConnection         Rule = "inactive_connection"
	RuleConfigSyncNotSuccessful    Rule = "config_sync_not_successful"
	RuleTimeEntrySyncNotSuccessful Rule = "time_entry_sync_not_successful"
	RuleNoPreviousJob              Rule = "no_previous_job"
	RuleInsideAntiCycleWindow      Rule = "inside_anti_cycle_window"
	RuleSecondarySlotStructure     Rule = "secondary_slot_structure"
	RuleSubscription               Rule = "subscription"
	RuleProviderNotOnConnection    Rule = "provider_not_on_connection"
)

type Decision struct {
	Accepted bool
	Rule     Rule
}

func accept() Decision {
	return Decision{Accepted: true, Rule: RuleAccepted}
}

func reject(rule Rule) Decision {
	return Decision{Rule: rule}
}

// AcceptancePolicy decides whether a connection is in a state where an inbound
// event may be acted upon. It holds no state besides its configuration.
type AcceptancePolicy struct {
	window time.Duration
	now    func() time.Time
}

func NewAcceptancePolicy(window time.Duration) *AcceptancePolicy {
	return &AcceptancePolicy{window: window, now: time.Now}
}

// WithClock returns a copy of the policy reading the current time from now.
func (p *AcceptancePolicy) WithClock(now func() time.Time) *AcceptancePolicy {
	cp := *p
	cp.now = now
	return &cp
}

// Accept applies the rules in order and returns the first rejection, if any.
func (p *AcceptancePolicy) Accept(event domain.WebhookEvent, conn *model.Connection, isPrimary bool) Decision {
	if !conn.IsActive {
		return reject(RuleInactiveConnection)
	}

	job := conn.LastJobFor(event.ObjectType)
	if job.Status != model.SyncStatusSuccess {
		if event.ObjectType == domain.ObjectTypeWorklog {
			return reject(RuleTimeEntrySyncNotSuccessful)
		}
		return reject(RuleConfigSyncNotSuccessful)
	}

	if job.LastJobTime == nil {
		return reject(RuleNoPreviousJob)
	}
	if p.now().Sub(*job.LastJobTime) < p.window {
		return reject(RuleInsideAntiCycleWindow)
	}

	// The secondary side never owns project or issue structure.
	if !isPrimary && event.ObjectType != domain.ObjectTypeWorklog {
		return reject(RuleSecondarySlotStructure)
	}

	return accept()
}
