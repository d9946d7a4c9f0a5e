package issue_tracker

import (
	"context"
	"errors"

	"timer2ticket.app/gateway/internal/domain"
	"timer2ticket.app/gateway/internal/model"
)

var ErrIssueNotFound = errors.New("issue not found")

type FetchIssueParams struct {
	// Config is the issue tracker side of the connection. It carries the
	// credentials needed to instantiate a provider api client.
	Config  model.ServiceConfig
	IssueID string
}

type IssueTrackerService interface {
	FetchIssue(ctx context.Context, params FetchIssueParams) (*domain.Enrichment, error)
}
