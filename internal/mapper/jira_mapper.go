package mapper

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"timer2ticket.app/gateway/internal/domain"
)

type JiraEventMapper struct{}

func NewJiraEventMapper() *JiraEventMapper {
	return &JiraEventMapper{}
}

type jiraUser struct {
	AccountID string `json:"accountId"`
}

type jiraWebhookPayload struct {
	WebhookEvent string       `json:"webhookEvent"`
	Timestamp    json.Number  `json:"timestamp"`
	User         *jiraUser    `json:"user"`
	Issue        *jiraIssue   `json:"issue"`
	Project      *jiraProject `json:"project"`
	Worklog      *jiraWorklog `json:"worklog"`
}

type jiraIssue struct {
	ID     flexID `json:"id"`
	Key    string `json:"key"`
	Fields *struct {
		Summary string `json:"summary"`
		Project *struct {
			ID flexID `json:"id"`
		} `json:"project"`
		Reporter *jiraUser `json:"reporter"`
	} `json:"fields"`
}

type jiraProject struct {
	ID          flexID    `json:"id"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	ProjectLead *jiraUser `json:"projectLead"`
}

type jiraWorklog struct {
	ID               flexID    `json:"id"`
	IssueID          flexID    `json:"issueId"`
	Started          string    `json:"started"`
	TimeSpentSeconds *int64    `json:"timeSpentSeconds"`
	Author           *jiraUser `json:"author"`
}

func (m *JiraEventMapper) Map(ctx context.Context, body []byte, receivedAt time.Time) (*domain.ProviderEvent, error) {
	var payload jiraWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, malformed("decoding jira payload: %v", err)
	}

	objectType, eventKind, err := parseJiraWebhookEvent(payload.WebhookEvent)
	if err != nil {
		return nil, err
	}

	event := &domain.ProviderEvent{
		ObjectType: objectType,
		EventKind:  eventKind,
		OccurredAt: jiraOccurredAt(payload.Timestamp, receivedAt),
	}

	switch objectType {
	case domain.ObjectTypeWorklog:
		w := payload.Worklog
		if w == nil || w.IssueID == "" || w.ID == "" || w.Started == "" ||
			w.TimeSpentSeconds == nil || *w.TimeSpentSeconds <= 0 {
			return nil, malformed("worklog requires issueId, id, started and a positive timeSpentSeconds")
		}
		event.ExternalID = w.IssueID.String() + "_" + w.ID.String()
		event.IssueID = w.IssueID.String()
		if w.Author != nil {
			event.ActorAccountID = w.Author.AccountID
		}

	case domain.ObjectTypeIssue:
		i := payload.Issue
		if i == nil || i.ID == "" || i.Fields == nil || i.Fields.Project == nil || i.Fields.Project.ID == "" {
			return nil, malformed("issue requires id and fields.project.id")
		}
		event.ExternalID = i.ID.String()
		event.IssueID = i.ID.String()
		switch {
		case payload.User != nil && payload.User.AccountID != "":
			event.ActorAccountID = payload.User.AccountID
		case i.Fields.Reporter != nil:
			event.ActorAccountID = i.Fields.Reporter.AccountID
		}

	case domain.ObjectTypeProject:
		p := payload.Project
		if p == nil || p.ID == "" || p.Name == "" {
			return nil, malformed("project requires id and name")
		}
		event.ExternalID = p.ID.String()
		if p.ProjectLead != nil {
			event.ActorAccountID = p.ProjectLead.AccountID
		}
	}

	// Events nobody can be held responsible for are not acted upon.
	if event.ActorAccountID == "" {
		return nil, malformed("no acting account for %s event", objectType)
	}

	return event, nil
}

// parseJiraWebhookEvent reads "jira:worklog_created" style identifiers: the
// part after the last colon ends in "<object>_<kind>".
func parseJiraWebhookEvent(webhookEvent string) (domain.ObjectType, domain.EventKind, error) {
	if webhookEvent == "" {
		return "", "", malformed("missing webhookEvent")
	}

	segments := strings.Split(webhookEvent, ":")
	tokens := strings.Split(segments[len(segments)-1], "_")
	if len(tokens) < 2 {
		return "", "", malformed("unrecognized webhookEvent %q", webhookEvent)
	}

	objectType, ok := domain.ParseObjectType(tokens[len(tokens)-2])
	if !ok {
		return "", "", malformed("unsupported object in webhookEvent %q", webhookEvent)
	}
	eventKind, ok := domain.ParseEventKind(tokens[len(tokens)-1])
	if !ok {
		return "", "", malformed("unsupported event in webhookEvent %q", webhookEvent)
	}
	return objectType, eventKind, nil
}

// jiraOccurredAt converts the epoch-millisecond timestamp Jira sends.
func jiraOccurredAt(ts json.Number, receivedAt time.Time) time.Time {
	if ts == "" {
		return receivedAt
	}
	ms, err := ts.Int64()
	if err != nil || ms <= 0 {
		return receivedAt
	}
	return time.UnixMilli(ms).UTC()
}
