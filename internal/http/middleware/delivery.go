package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"timer2ticket.app/gateway/common/id"
	"timer2ticket.app/gateway/common/logger"
)

const deliveryIDKey = "delivery_id"

// Delivery tags an inbound webhook with a snowflake id and puts the
// connection and provider into the request's log fields.
func Delivery(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		deliveryID := id.New()
		c.Set(deliveryIDKey, deliveryID)
		c.Header("X-Delivery-Id", strconv.FormatInt(deliveryID, 10))

		fields := logger.LogFields{
			DeliveryID: logger.Ptr(deliveryID),
			Provider:   logger.Ptr(provider),
			Component:  "gateway.http",
		}
		if connectionID := c.Param("connection_id"); connectionID != "" {
			fields.ConnectionID = logger.Ptr(connectionID)
		}
		c.Request = c.Request.WithContext(logger.WithLogFields(c.Request.Context(), fields))

		c.Next()
	}
}

// DeliveryID returns the id assigned by Delivery, or a fresh one when the
// middleware did not run.
func DeliveryID(c *gin.Context) int64 {
	if v, ok := c.Get(deliveryIDKey); ok {
		if deliveryID, ok := v.(int64); ok {
			return deliveryID
		}
	}
	return id.New()
}
