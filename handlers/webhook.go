package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"

	"storefront/pkg/logkey"
)

// Webhook receives stripe events. payment_intent.succeeded moves the
// referenced order to paid and triggers fulfilment events.
func (h *Handler) Webhook(c *gin.Context) {
	traceId := uuid.NewString()
	const MaxBodyBytes = int64(65536)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	var event stripe.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		slog.Error("failed to bind webhook event", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var paymentIntent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			slog.Error("failed to unmarshal payment intent", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		orderID := paymentIntent.Metadata["order_id"]
		if orderID == "" {
			slog.Error("payment intent missing order id", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing order_id metadata"})
			return
		}
		slog.Info("payment intent succeeded", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.OrderID, orderID), slog.String("PaymentIntentID", paymentIntent.ID))

		res := h.checkout.HandlePaymentSucceeded(c.Request.Context(), orderID, paymentIntent.ID)
		if !res.Success {
			slog.Error("failed to record payment", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.OrderID, orderID), slog.String("Message", res.Message))
			c.AbortWithStatusJSON(http.StatusInternalServerError, res)
			return
		}

	default:
		slog.Info("ignoring webhook event", slog.String(logkey.TraceID, traceId), slog.String("Type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
