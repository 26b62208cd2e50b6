package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

// RequestID reuses a well-formed incoming X-Request-ID or generates a UUID,
// and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		ctx.Set(RequestIDKey, id)
		ctx.Header(requestIDHeader, id)
		ctx.Next()
	}
}

func validRequestID(id string) bool {
	if len(id) == 0 || len(id) > 128 {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}

// Logger attaches a request-scoped logger to the request context and writes
// one line per request once the handler chain returns.
func Logger(lg *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		reqLg := lg.With(zap.String("request_id", ctx.GetString(RequestIDKey)))
		ctx.Request = ctx.Request.WithContext(zctx.Base(ctx.Request.Context(), reqLg))

		ctx.Next()

		status := ctx.Writer.Status()
		fields := []zap.Field{
			zap.String("method", ctx.Request.Method),
			zap.String("route", ctx.FullPath()),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
		}
		if len(ctx.Errors) > 0 {
			fields = append(fields, zap.String("errors", ctx.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			reqLg.Error("Request", fields...)
		case status >= http.StatusBadRequest:
			reqLg.Warn("Request", fields...)
		default:
			reqLg.Info("Request", fields...)
		}
	}
}

// Recovery turns a handler panic into a 500 and logs it with a stack trace.
func Recovery() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				zctx.From(ctx.Request.Context()).Error("panic recovered",
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				ctx.Header("Connection", "close")
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			}
		}()
		ctx.Next()
	}
}
