package service_test

import (
	"context"
	"sync"

	"timer2ticket.app/gateway/internal/dispatch"
	"timer2ticket.app/gateway/internal/domain"
	"timer2ticket.app/gateway/internal/model"
	"timer2ticket.app/gateway/internal/queue"
	"timer2ticket.app/gateway/internal/service/issue_tracker"
	"timer2ticket.app/gateway/internal/store"
)

type mockConnectionStore struct {
	getByIDFn func(ctx context.Context, id string) (*model.Connection, error)
	calls     int
}

func (m *mockConnectionStore) GetByID(ctx context.Context, id string) (*model.Connection, error) {
	m.calls++
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

type mockMappingStore struct {
	findFn func(ctx context.Context, connectionID, externalID string) (*model.Mapping, error)
}

func (m *mockMappingStore) FindByExternalID(ctx context.Context, connectionID, externalID string) (*model.Mapping, error) {
	if m.findFn != nil {
		return m.findFn(ctx, connectionID, externalID)
	}
	return nil, store.ErrNotFound
}

type mockTimeEntryStore struct {
	findFn func(ctx context.Context, connectionID, timeEntryID string) (*model.TimeEntrySyncedObject, error)
}

func (m *mockTimeEntryStore) FindByTimeEntryID(ctx context.Context, connectionID, timeEntryID string) (*model.TimeEntrySyncedObject, error) {
	if m.findFn != nil {
		return m.findFn(ctx, connectionID, timeEntryID)
	}
	return nil, store.ErrNotFound
}

type mockMembershipStore struct {
	getByUserIDFn func(ctx context.Context, userID string) (*model.MembershipInfo, error)
}

func (m *mockMembershipStore) GetByUserID(ctx context.Context, userID string) (*model.MembershipInfo, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, store.ErrNotFound
}

type mockIssueTracker struct {
	fetchIssueFn func(ctx context.Context, params issue_tracker.FetchIssueParams) (*domain.Enrichment, error)
	params       []issue_tracker.FetchIssueParams
}

func (m *mockIssueTracker) FetchIssue(ctx context.Context, params issue_tracker.FetchIssueParams) (*domain.Enrichment, error) {
	m.params = append(m.params, params)
	if m.fetchIssueFn != nil {
		return m.fetchIssueFn(ctx, params)
	}
	return &domain.Enrichment{IssueID: params.IssueID}, nil
}

type mockCoreClient struct {
	mu       sync.Mutex
	postFn   func(ctx context.Context, payload dispatch.Payload) error
	payloads []dispatch.Payload
}

func (m *mockCoreClient) PostWebhook(ctx context.Context, payload dispatch.Payload) error {
	m.mu.Lock()
	m.payloads = append(m.payloads, payload)
	m.mu.Unlock()
	if m.postFn != nil {
		return m.postFn(ctx, payload)
	}
	return nil
}

func (m *mockCoreClient) Payloads() []dispatch.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]dispatch.Payload(nil), m.payloads...)
}

type mockDecisionRecorder struct {
	mu        sync.Mutex
	recordFn  func(ctx context.Context, d queue.Decision) error
	decisions []queue.Decision
}

func (m *mockDecisionRecorder) Record(ctx context.Context, d queue.Decision) error {
	m.mu.Lock()
	m.decisions = append(m.decisions, d)
	m.mu.Unlock()
	if m.recordFn != nil {
		return m.recordFn(ctx, d)
	}
	return nil
}

func (m *mockDecisionRecorder) Close() error { return nil }

func (m *mockDecisionRecorder) Decisions() []queue.Decision {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]queue.Decision(nil), m.decisions...)
}
