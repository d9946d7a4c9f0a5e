package queue

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"timer2ticket.app/gateway/internal/domain"
)

// Decision is one entry of the decision log: what the gateway did with a
// delivery and which rule decided it.
type Decision struct {
	DeliveryID   int64
	Provider     string
	ConnectionID string
	ObjectType   domain.ObjectType
	EventKind    domain.EventKind
	ExternalID   string
	Outcome      domain.Outcome
	Rule         string
	TraceID      *string
	RecordedAt   time.Time
}

type DecisionRecorder interface {
	Record(ctx context.Context, d Decision) error
	Close() error
}

type redisDecisionRecorder struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *slog.Logger
}

// NewRedisDecisionRecorder appends decisions to a capped stream.
func NewRedisDecisionRecorder(client *redis.Client, stream string, logger *slog.Logger) DecisionRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisDecisionRecorder{
		client: client,
		stream: stream,
		maxLen: 100_000,
		logger: logger,
	}
}

func (r *redisDecisionRecorder) Record(ctx context.Context, d Decision) error {
	fields := decisionFields(d)

	if err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLen,
		Approx: true,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("record decision: %w", err)
	}

	r.logger.DebugContext(ctx, "recorded decision", "outcome", d.Outcome, "rule", d.Rule)
	return nil
}

func (r *redisDecisionRecorder) Close() error {
	return r.client.Close()
}

func decisionFields(d Decision) map[string]any {
	recordedAt := d.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	fields := map[string]any{
		"delivery_id":   strconv.FormatInt(d.DeliveryID, 10),
		"provider":      d.Provider,
		"connection_id": d.ConnectionID,
		"outcome":       string(d.Outcome),
		"recorded_at":   recordedAt.UTC().Format(time.RFC3339Nano),
	}
	if d.ObjectType != "" {
		fields["object_type"] = string(d.ObjectType)
	}
	if d.EventKind != "" {
		fields["event_kind"] = string(d.EventKind)
	}
	if d.ExternalID != "" {
		fields["external_id"] = d.ExternalID
	}
	if d.Rule != "" {
		fields["rule"] = d.Rule
	}
	if d.TraceID != nil && *d.TraceID != "" {
		fields["trace_id"] = *d.TraceID
	}
	return fields
}

type noopDecisionRecorder struct{}

// NewNoopDecisionRecorder is used when no Redis is configured.
func NewNoopDecisionRecorder() DecisionRecorder {
	return noopDecisionRecorder{}
}

func (noopDecisionRecorder) Record(context.Context, Decision) error { return nil }

func (noopDecisionRecorder) Close() error { return nil }
