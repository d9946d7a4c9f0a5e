package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timer2ticket.app/gateway/core/config"
	"timer2ticket.app/gateway/internal/model"
)

// CallbackURLHandler tells the setup UI which URL to register with a provider.
type CallbackURLHandler struct {
	cfg config.WebhookConfig
}

func NewCallbackURLHandler(cfg config.WebhookConfig) *CallbackURLHandler {
	return &CallbackURLHandler{cfg: cfg}
}

type callbackURLResponse struct {
	Provider     string `json:"provider"`
	ConnectionID string `json:"connection_id"`
	CallbackURL  string `json:"callback_url"`
}

func (h *CallbackURLHandler) Get(c *gin.Context) {
	provider, ok := model.ParseProvider(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unsupported provider"})
		return
	}

	connectionID := c.Param("connection_id")
	if connectionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "connection id is required"})
		return
	}

	c.JSON(http.StatusOK, callbackURLResponse{
		Provider:     string(provider),
		ConnectionID: connectionID,
		CallbackURL:  h.cfg.CallbackURL(string(provider), connectionID),
	})
}
