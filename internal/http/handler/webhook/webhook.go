package webhook

import (
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"timer2ticket.app/gateway/internal/http/middleware"
	"timer2ticket.app/gateway/internal/model"
	"timer2ticket.app/gateway/internal/service"
)

// Providers retry on anything but 2xx, so the webhook routes answer 200
// whatever happens to the delivery afterwards.
const maxBodyBytes = 1 << 20

var connectionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func validConnectionID(id string) bool {
	return connectionIDPattern.MatchString(id)
}

func acknowledge(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
	c.Writer.Flush()
}

func readBody(c *gin.Context) ([]byte, error) {
	return io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
}

// acknowledgeAndSubmit replies to the provider first and only then hands the
// delivery to the gateway.
func acknowledgeAndSubmit(c *gin.Context, gateway service.WebhookGateway, provider model.Provider, body []byte) {
	ctx := c.Request.Context()
	connectionID := c.Param("connection_id")

	acknowledge(c, gin.H{"status": "ok"})

	if !validConnectionID(connectionID) {
		slog.WarnContext(ctx, "webhook for invalid connection id ignored", "connection_id", connectionID)
		return
	}

	gateway.Submit(ctx, service.Delivery{
		ID:           middleware.DeliveryID(c),
		Provider:     provider,
		ConnectionID: connectionID,
		Body:         body,
		ReceivedAt:   time.Now(),
	})
}
