package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) GetHome(ctx *gin.Context) {
	ctx.String(http.StatusOK, "Hello! Welcome to TREATS4TROJANS")
}

// Healthz reports whether the database answers a ping.
func (h *Handler) Healthz(ctx *gin.Context) {
	sqlDB, err := h.db.DB()
	if err != nil {
		sendInternalError(ctx, "Database unavailable", err)
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		logger(ctx).Warn("Health check failed", zap.Error(err))
		sendJSONResponse(ctx, http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"status": "ok"})
}
