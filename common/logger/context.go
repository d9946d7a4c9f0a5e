package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// The gateway enriches the context as a delivery moves through the pipeline, so a
// rejection logged deep in the policy code still names the connection and object.
type LogFields struct {
	DeliveryID   *int64  // Snowflake id assigned to the inbound webhook
	ConnectionID *string // Connection the webhook was delivered for
	Provider     *string // "jira", "toggl_track"
	ObjectType   *string // "issue", "project", "worklog"
	EventKind    *string // "created", "updated", "deleted"
	ExternalID   *string // Provider object id
	Component    string  // Component name, e.g. "gateway.policy"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.DeliveryID != nil {
		result.DeliveryID = new.DeliveryID
	}
	if new.ConnectionID != nil {
		result.ConnectionID = new.ConnectionID
	}
	if new.Provider != nil {
		result.Provider = new.Provider
	}
	if new.ObjectType != nil {
		result.ObjectType = new.ObjectType
	}
	if new.EventKind != nil {
		result.EventKind = new.EventKind
	}
	if new.ExternalID != nil {
		result.ExternalID = new.ExternalID
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{DeliveryID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
// Used for logging provider response bodies.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
