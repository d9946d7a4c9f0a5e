package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"timer2ticket.app/gateway/common/logger"
	"timer2ticket.app/gateway/internal/dispatch"
	"timer2ticket.app/gateway/internal/domain"
	"timer2ticket.app/gateway/internal/mapper"
	"timer2ticket.app/gateway/internal/model"
	"timer2ticket.app/gateway/internal/policy"
	"timer2ticket.app/gateway/internal/queue"
	"timer2ticket.app/gateway/internal/service/issue_tracker"
	"timer2ticket.app/gateway/internal/store"
)

// Delivery is one inbound webhook request after it was acknowledged.
type Delivery struct {
	ID           int64
	Provider     model.Provider
	ConnectionID string
	Body         []byte
	ReceivedAt   time.Time
}

// Outcome is the result of processing a delivery. Event is set once the
// payload was mapped.
type Outcome struct {
	Result domain.Outcome
	Rule   string
	Event  *domain.WebhookEvent
}

type WebhookGateway interface {
	// Process runs the whole pipeline synchronously.
	Process(ctx context.Context, d Delivery) Outcome
	// Submit runs Process in the background, detached from the request.
	Submit(ctx context.Context, d Delivery)
	// Shutdown waits for submitted deliveries until ctx is done.
	Shutdown(ctx context.Context) error
}

type WebhookGatewayDeps struct {
	Mappers      *mapper.MapperRegistry
	Connections  store.ConnectionStore
	Subscription SubscriptionChecker
	Policy       *policy.AcceptancePolicy
	Guard        *policy.CycleGuard
	IssueTracker issue_tracker.IssueTrackerService
	Dispatcher   *dispatch.Dispatcher
	Recorder     queue.DecisionRecorder
	Logger       *slog.Logger
	// Clock stamps decision log entries. Defaults to time.Now.
	Clock        func() time.Time
}

type webhookGateway struct {
	deps     WebhookGatewayDeps
	logger   *slog.Logger
	inFlight sync.WaitGroup
}

func NewWebhookGateway(deps WebhookGatewayDeps) WebhookGateway {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Recorder == nil {
		deps.Recorder = queue.NewNoopDecisionRecorder()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &webhookGateway{deps: deps, logger: deps.Logger}
}

func (g *webhookGateway) Submit(ctx context.Context, d Delivery) {
	ctx = context.WithoutCancel(ctx)

	g.inFlight.Add(1)
	go func() {
		defer g.inFlight.Done()
		defer func() {
			if r := recover(); r != nil {
				g.logger.ErrorContext(ctx, "panic while processing webhook",
					"panic", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		span := logger.StartLinkedSpan(ctx, "gateway.process_delivery")
		defer span.End()

		g.Process(span.Context(), d)
	}()
}

func (g *webhookGateway) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for in-flight deliveries: %w", ctx.Err())
	}
}

func (g *webhookGateway) Process(ctx context.Context, d Delivery) Outcome {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		DeliveryID:   logger.Ptr(d.ID),
		ConnectionID: logger.Ptr(d.ConnectionID),
		Provider:     logger.Ptr(string(d.Provider)),
		Component:    "gateway.pipeline",
	})

	out := g.process(ctx, d)
	g.record(ctx, d, out)
	return out
}

func (g *webhookGateway) process(ctx context.Context, d Delivery) Outcome {
	m, err := g.deps.Mappers.Get(d.Provider)
	if err != nil {
		g.logger.WarnContext(ctx, "no mapper for provider", "error", err)
		return Outcome{Result: domain.OutcomeUnsupportedProvider}
	}

	pe, err := m.Map(ctx, d.Body, d.ReceivedAt)
	if err != nil {
		if errors.Is(err, mapper.ErrIncompleteTimeEntry) {
			g.logger.DebugContext(ctx, "time entry not settled yet, dropping")
			return Outcome{Result: domain.OutcomeIncomplete}
		}
		g.logger.DebugContext(ctx, "malformed webhook payload, dropping", "error", err)
		return Outcome{Result: domain.OutcomeMalformed}
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ObjectType: logger.Ptr(string(pe.ObjectType)),
		EventKind:  logger.Ptr(string(pe.EventKind)),
		ExternalID: logger.Ptr(pe.ExternalID),
	})
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("webhook.provider", string(d.Provider)),
		attribute.String("webhook.object_type", string(pe.ObjectType)),
		attribute.String("webhook.event_kind", string(pe.EventKind)),
	)

	conn, err := g.deps.Connections.GetByID(ctx, d.ConnectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			g.logger.WarnContext(ctx, "connection not found, dropping")
			return Outcome{Result: domain.OutcomeConnectionNotFound}
		}
		g.logger.WarnContext(ctx, "connection lookup failed, dropping", "error", err)
		return Outcome{Result: domain.OutcomeLookupFailed}
	}

	if !conn.HasService(d.Provider.ServiceName()) {
		g.logger.InfoContext(ctx, "webhook rejected", "rule", policy.RuleProviderNotOnConnection)
		return Outcome{Result: domain.OutcomeRejected, Rule: string(policy.RuleProviderNotOnConnection)}
	}

	if conn.SameServiceOnBothSides() {
		g.logger.WarnContext(ctx, "connection pairs the same service on both sides, resolving to the first slot",
			"service", conn.FirstService.Name)
	}

	event := pe.Bind(conn.ID, conn.SlotFor(d.Provider.ServiceName()))
	out := Outcome{Event: &event}

	allowed, err := g.deps.Subscription.Allows(ctx, conn)
	if err != nil {
		g.logger.WarnContext(ctx, "membership lookup failed, dropping", "error", err)
		out.Result = domain.OutcomeLookupFailed
		return out
	}
	if !allowed {
		g.logger.InfoContext(ctx, "webhook rejected", "rule", policy.RuleSubscription)
		out.Result, out.Rule = domain.OutcomeRejected, string(policy.RuleSubscription)
		return out
	}

	isPrimary := event.ServiceSlot == conn.PrimarySlot()
	decision := g.deps.Policy.Accept(event, conn, isPrimary)
	if !decision.Accepted {
		g.logger.InfoContext(ctx, "webhook rejected",
			"rule", decision.Rule,
			"service_slot", int(event.ServiceSlot),
		)
		out.Result, out.Rule = domain.OutcomeRejected, string(decision.Rule)
		return out
	}

	safe, err := g.deps.Guard.IsCycleSafe(ctx, event, conn)
	if err != nil {
		g.logger.WarnContext(ctx, "cycle check lookup failed, dropping", "error", err)
		out.Result = domain.OutcomeLookupFailed
		return out
	}
	if !safe {
		g.logger.InfoContext(ctx, "webhook is an echo of a recent sync, dropping")
		out.Result = domain.OutcomeCycleUnsafe
		return out
	}

	if needsEnrichment(d.Provider, event) {
		enrichment, err := g.deps.IssueTracker.FetchIssue(ctx, issue_tracker.FetchIssueParams{
			Config:  conn.Service(event.ServiceSlot).Config,
			IssueID: event.IssueID,
		})
		if err != nil {
			g.logger.WarnContext(ctx, "issue enrichment failed, dropping", "error", err, "issue_id", event.IssueID)
			out.Result = domain.OutcomeEnrichmentFailed
			return out
		}
		event.Enrichment = enrichment
	}

	if g.deps.Dispatcher.Dispatch(ctx, event) {
		out.Result = domain.OutcomeDispatched
	} else {
		out.Result = domain.OutcomeDispatchFailed
	}
	return out
}

// Deleted worklogs are forwarded as is: the issue may be gone as well.
func needsEnrichment(provider model.Provider, event domain.WebhookEvent) bool {
	return provider == model.ProviderJira &&
		event.ObjectType == domain.ObjectTypeWorklog &&
		event.EventKind != domain.EventKindDeleted &&
		event.IssueID != ""
}

func (g *webhookGateway) record(ctx context.Context, d Delivery, out Outcome) {
	decision := queue.Decision{
		DeliveryID:   d.ID,
		Provider:     string(d.Provider),
		ConnectionID: d.ConnectionID,
		Outcome:      out.Result,
		Rule:         out.Rule,
		RecordedAt:   g.deps.Clock(),
	}
	if out.Event != nil {
		decision.ObjectType = out.Event.ObjectType
		decision.EventKind = out.Event.EventKind
		decision.ExternalID = out.Event.ExternalID
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		decision.TraceID = logger.Ptr(sc.TraceID().String())
	}

	if err := g.deps.Recorder.Record(ctx, decision); err != nil {
		g.logger.WarnContext(ctx, "failed to record webhook decision", "error", err)
	}
}
