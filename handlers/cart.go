package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/pkg/ctxmanage"
	"storefront/pkg/logkey"
)

// SessionHeader carries the anonymous cart identity for guests. Signed
// in users are identified by their token instead.
const SessionHeader = "X-Session-ID"

// ownerOfRequest resolves the explicit cart identity: the token subject
// when authenticated, the session header otherwise.
func ownerOfRequest(c *gin.Context) (cart.Owner, bool) {
	if claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims); ok {
		return cart.Owner{UserID: claims.Subject}, true
	}
	if sessionID := c.GetHeader(SessionHeader); sessionID != "" {
		return cart.Owner{SessionID: sessionID}, true
	}
	return cart.Owner{}, false
}

func (h *Handler) AddToCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	owner, ok := ownerOfRequest(c)
	if !ok {
		slog.Error("no cart identity on request", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in or provide a " + SessionHeader + " header"})
		return
	}

	var request struct {
		VariantID string `json:"variant_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if request.VariantID == "" {
		slog.Error("missing variant id", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Variant ID is required"})
		return
	}

	res := h.cart.AddItem(c.Request.Context(), owner, request.VariantID, request.Quantity)
	if !res.Success {
		slog.Error("add to cart failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.VariantID, request.VariantID), slog.String("Message", res.Message))
		c.AbortWithStatusJSON(statusForCartFailure(res.Message), res)
		return
	}

	slog.Info("item added to cart", slog.String(logkey.TraceID, traceId),
		slog.String(logkey.VariantID, request.VariantID), slog.Int("Quantity", request.Quantity))
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	owner, ok := ownerOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in or provide a " + SessionHeader + " header"})
		return
	}

	res := h.cart.Get(c.Request.Context(), owner)
	if !res.Success {
		slog.Error("error fetching cart", slog.String(logkey.TraceID, traceId), slog.String("Message", res.Message))
		c.AbortWithStatusJSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	owner, ok := ownerOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in or provide a " + SessionHeader + " header"})
		return
	}

	var request struct {
		VariantID string `json:"variant_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if request.VariantID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Variant ID is required"})
		return
	}

	res := h.cart.UpdateItemQuantity(c.Request.Context(), owner, request.VariantID, request.Quantity)
	if !res.Success {
		slog.Error("update cart item failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.VariantID, request.VariantID), slog.String("Message", res.Message))
		c.AbortWithStatusJSON(statusForCartFailure(res.Message), res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	owner, ok := ownerOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in or provide a " + SessionHeader + " header"})
		return
	}

	variantID := c.Param("variantID")
	res := h.cart.RemoveItem(c.Request.Context(), owner, variantID)
	if !res.Success {
		slog.Error("remove cart item failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.VariantID, variantID), slog.String("Message", res.Message))
		c.AbortWithStatusJSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ClearCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	owner, ok := ownerOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in or provide a " + SessionHeader + " header"})
		return
	}

	res := h.cart.Clear(c.Request.Context(), owner)
	if !res.Success {
		slog.Error("clear cart failed", slog.String(logkey.TraceID, traceId), slog.String("Message", res.Message))
		c.AbortWithStatusJSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CartReadiness reports whether the cart can proceed to checkout, with
// a per-line problem list when it cannot.
func (h *Handler) CartReadiness(c *gin.Context) {
	owner, ok := ownerOfRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in or provide a " + SessionHeader + " header"})
		return
	}

	res := h.cart.Readiness(c.Request.Context(), owner)
	if !res.Success {
		c.JSON(http.StatusConflict, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func statusForCartFailure(message string) int {
	switch message {
	case "invalid quantity":
		return http.StatusBadRequest
	case "Product variant not found", "Cart item not found":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
