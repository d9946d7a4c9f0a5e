package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timer2ticket.app/gateway/internal/http/handler"
	"timer2ticket.app/gateway/internal/http/handler/webhook"
	"timer2ticket.app/gateway/internal/service"
)

func SetupRoutes(router *gin.Engine, services *service.Services) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	webhooks := router.Group("/webhooks")
	{
		jiraHandler := webhook.NewJiraWebhookHandler(services.Gateway())
		togglTrackHandler := webhook.NewTogglTrackWebhookHandler(services.Gateway())
		callbackURLHandler := handler.NewCallbackURLHandler(services.Webhook())

		WebhookRouter(webhooks, jiraHandler, togglTrackHandler, callbackURLHandler)
	}
}
