package domain

// Outcome is how the processing of a single delivery ended.
type Outcome string

const (
	OutcomeDispatched          Outcome = "dispatched"
	OutcomeDispatchFailed      Outcome = "dispatch_failed"
	OutcomeMalformed           Outcome = "malformed"
	OutcomeIncomplete          Outcome = "incomplete"
	OutcomeUnsupportedProvider Outcome = "unsupported_provider"
	OutcomeConnectionNotFound  Outcome = "connection_not_found"
	OutcomeLookupFailed        Outcome = "lookup_failed"
	OutcomeRejected            Outcome = "rejected"
	OutcomeCycleUnsafe         Outcome = "cycle_unsafe"
	OutcomeEnrichmentFailed    Outcome = "enrichment_failed"
)
