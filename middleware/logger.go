package middleware

import (
	"context"
	"log/slog"
	"time"

	"storefront/pkg/ctxmanage"
	"storefront/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Logger assigns a trace id to every request and logs start/end with
// latency and status.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := uuid.NewString()
		ctx := context.WithValue(c.Request.Context(), ctxmanage.TraceIdKey, traceId)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		slog.Info("request started", slog.String(logkey.TraceID, traceId),
			slog.String("Method", c.Request.Method), slog.String("URL Path", c.Request.URL.Path))

		c.Next()

		slog.Info("request completed", slog.String(logkey.TraceID, traceId),
			slog.String("Method", c.Request.Method), slog.String("URL Path", c.Request.URL.Path),
			slog.Int("Status Code", c.Writer.Status()), slog.Int64("Duration ms", time.Since(start).Milliseconds()))
	}
}
