package webhook

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"timer2ticket.app/gateway/internal/mapper"
	"timer2ticket.app/gateway/internal/model"
	"timer2ticket.app/gateway/internal/service"
)

type TogglTrackWebhookHandler struct {
	gateway service.WebhookGateway
}

func NewTogglTrackWebhookHandler(gateway service.WebhookGateway) *TogglTrackWebhookHandler {
	return &TogglTrackWebhookHandler{gateway: gateway}
}

func (h *TogglTrackWebhookHandler) HandleEvent(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := readBody(c)
	if err != nil {
		slog.WarnContext(ctx, "failed to read toggl track webhook body", "error", err)
		acknowledge(c, gin.H{"status": "ok"})
		return
	}

	// Toggl validates a subscription by expecting its code echoed back.
	if code, ok := mapper.IsPing(body); ok {
		slog.InfoContext(ctx, "answering toggl track subscription ping")
		acknowledge(c, gin.H{"validation_code": code})
		return
	}

	acknowledgeAndSubmit(c, h.gateway, model.ProviderTogglTrack, body)
}
