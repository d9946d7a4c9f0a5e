package router

import (
	"github.com/gin-gonic/gin"

	"timer2ticket.app/gateway/internal/http/handler"
	"timer2ticket.app/gateway/internal/http/handler/webhook"
	"timer2ticket.app/gateway/internal/http/middleware"
	"timer2ticket.app/gateway/internal/model"
)

func WebhookRouter(
	router *gin.RouterGroup,
	jira *webhook.JiraWebhookHandler,
	togglTrack *webhook.TogglTrackWebhookHandler,
	callbackURL *handler.CallbackURLHandler,
) {
	router.POST("/jira/:connection_id", middleware.Delivery(string(model.ProviderJira)), jira.HandleEvent)
	router.POST("/toggl_track/:connection_id", middleware.Delivery(string(model.ProviderTogglTrack)), togglTrack.HandleEvent)
	router.GET("/:provider/:connection_id/callback-url", callbackURL.Get)
}
