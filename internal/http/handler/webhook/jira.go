package webhook

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"timer2ticket.app/gateway/internal/model"
	"timer2ticket.app/gateway/internal/service"
)

type JiraWebhookHandler struct {
	gateway service.WebhookGateway
}

func NewJiraWebhookHandler(gateway service.WebhookGateway) *JiraWebhookHandler {
	return &JiraWebhookHandler{gateway: gateway}
}

func (h *JiraWebhookHandler) HandleEvent(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "failed to read jira webhook body", "error", err)
		acknowledge(c, gin.H{"status": "ok"})
		return
	}

	slog.DebugContext(c.Request.Context(), "received jira webhook", "bytes", len(body))

	acknowledgeAndSubmit(c, h.gateway, model.ProviderJira, body)
}
