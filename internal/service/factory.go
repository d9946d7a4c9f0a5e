package service

import (
	"log/slog"

	"timer2ticket.app/gateway/core/config"
	"timer2ticket.app/gateway/internal/dispatch"
	"timer2ticket.app/gateway/internal/mapper"
	"timer2ticket.app/gateway/internal/policy"
	"timer2ticket.app/gateway/internal/queue"
	"timer2ticket.app/gateway/internal/service/issue_tracker"
	"timer2ticket.app/gateway/internal/store"
)

type Services struct {
	cfg     config.Config
	gateway WebhookGateway
}

// NewServices wires the webhook pipeline. The gateway is built once because
// it tracks in-flight deliveries for shutdown.
func NewServices(stores *store.Stores, cfg config.Config, recorder queue.DecisionRecorder, logger *slog.Logger) *Services {
	if logger == nil {
		logger = slog.Default()
	}

	window := cfg.Webhook.AntiCycleWindow
	gateway := NewWebhookGateway(WebhookGatewayDeps{
		Mappers:      mapper.NewDefaultRegistry(),
		Connections:  stores.Connections(),
		Subscription: NewSubscriptionChecker(stores.Memberships(), cfg.Subscription),
		Policy:       policy.NewAcceptancePolicy(window),
		Guard:        policy.NewCycleGuard(stores.Mappings(), stores.TimeEntries(), window),
		IssueTracker: issue_tracker.NewJiraIssueTrackerService(cfg.Jira.Timeout),
		Dispatcher:   dispatch.NewDispatcher(dispatch.NewHTTPCoreClient(cfg.Core.BaseURL, cfg.Core.Timeout), logger),
		Recorder:     recorder,
		Logger:       logger,
	})

	return &Services{
		cfg:     cfg,
		gateway: gateway,
	}
}

func (s *Services) Gateway() WebhookGateway {
	return s.gateway
}

func (s *Services) Webhook() config.WebhookConfig {
	return s.cfg.Webhook
}
