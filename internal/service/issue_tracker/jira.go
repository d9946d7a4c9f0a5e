package issue_tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"timer2ticket.app/gateway/common/otel"
	"timer2ticket.app/gateway/internal/domain"
)

type jiraIssueTrackerService struct {
	client *http.Client
}

func NewJiraIssueTrackerService(timeout time.Duration) IssueTrackerService {
	return &jiraIssueTrackerService{
		client: &http.Client{Timeout: timeout},
	}
}

func (s *jiraIssueTrackerService) FetchIssue(ctx context.Context, params FetchIssueParams) (*domain.Enrichment, error) {
	if params.Config.Domain == "" {
		return nil, fmt.Errorf("jira domain is not configured")
	}
	if params.IssueID == "" {
		return nil, fmt.Errorf("issue id is required")
	}

	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s?fields=summary,project",
		jiraBaseURL(params.Config.Domain), url.PathEscape(params.IssueID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(params.Config.UserEmail, params.Config.APIKey)
	req.Header.Set("Accept", "application/json")
	otel.InjectHeaders(ctx, req.Header)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching issue from jira: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrIssueNotFound, params.IssueID)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetching issue from jira: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var issue jiraIssue
	if err := json.NewDecoder(resp.Body).Decode(&issue); err != nil {
		return nil, fmt.Errorf("decoding jira issue: %w", err)
	}

	return s.mapToEnrichment(issue), nil
}

func (s *jiraIssueTrackerService) mapToEnrichment(issue jiraIssue) *domain.Enrichment {
	return &domain.Enrichment{
		IssueID:      issue.ID,
		IssueKey:     issue.Key,
		IssueSummary: issue.Fields.Summary,
		ProjectID:    issue.Fields.Project.ID,
	}
}

// jiraBaseURL accepts both "acme.atlassian.net" and a full origin.
func jiraBaseURL(domain string) string {
	domain = strings.TrimRight(domain, "/")
	if strings.Contains(domain, "://") {
		return domain
	}
	return "https://" + domain
}

type jiraIssue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Project struct {
			ID  string `json:"id"`
			Key string `json:"key"`
		} `json:"project"`
	} `json:"fields"`
}
