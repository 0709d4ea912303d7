package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"storefront/internal/auth"
	"storefront/internal/orders"
	"storefront/pkg/ctxmanage"
	"storefront/pkg/logkey"
)

func (h *Handler) Checkout(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var request orders.CheckoutRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		slog.Error("checkout validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	res := h.checkout.Checkout(c.Request.Context(), claims.Subject, request)
	if !res.Success {
		slog.Error("checkout failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.UserID, claims.Subject), slog.String("Message", res.Message))
		switch res.Message {
		case "Cart is empty", "Invalid discount code", "Shipping method not found":
			c.AbortWithStatusJSON(http.StatusBadRequest, res)
		case "Some items are out of stock":
			c.AbortWithStatusJSON(http.StatusConflict, res)
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, res)
		}
		return
	}

	slog.Info("order created", slog.String(logkey.TraceID, traceId),
		slog.String(logkey.UserID, claims.Subject), slog.String(logkey.OrderID, res.Data.Order.ID))
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	res := h.checkout.Get(c.Request.Context(), claims.Subject, c.Param("id"))
	if !res.Success {
		if res.Message == "Order not found" {
			c.AbortWithStatusJSON(http.StatusNotFound, res)
			return
		}
		slog.Error("error fetching order", slog.String(logkey.TraceID, traceId), slog.String("Message", res.Message))
		c.AbortWithStatusJSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limitInt, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limitInt <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}
	offsetInt, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offsetInt < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid offset parameter"})
		return
	}

	res := h.checkout.List(c.Request.Context(), claims.Subject, limitInt, offsetInt)
	if !res.Success {
		slog.Error("error fetching orders", slog.String(logkey.TraceID, traceId), slog.String("Message", res.Message))
		c.AbortWithStatusJSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	orderID := c.Param("id")

	res := h.checkout.Cancel(c.Request.Context(), claims.Subject, orderID)
	if !res.Success {
		slog.Error("cancel order failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.OrderID, orderID), slog.String("Message", res.Message))
		switch res.Message {
		case "Order not found":
			c.AbortWithStatusJSON(http.StatusNotFound, res)
		case "Order cannot be cancelled in its current status":
			c.AbortWithStatusJSON(http.StatusConflict, res)
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, res)
		}
		return
	}

	slog.Info("order cancelled", slog.String(logkey.TraceID, traceId), slog.String(logkey.OrderID, orderID))
	c.JSON(http.StatusOK, res)
}
