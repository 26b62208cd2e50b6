package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kariqs/treats-api/cart"
	"github.com/Kariqs/treats-api/events"
	"github.com/Kariqs/treats-api/middlewares"
	"github.com/Kariqs/treats-api/models"
	"github.com/Kariqs/treats-api/paypal"
)

// CreateOrder opens a PayPal order for the caller's current cart. The amount
// is always priced from the stored cart; any amount sent by the client is
// ignored.
func (h *Handler) CreateOrder(ctx *gin.Context) {
	claims, _ := middlewares.CurrentClaims(ctx)
	reqCtx := ctx.Request.Context()

	lines, err := h.carts.Lines(reqCtx, claims.UserID)
	if err != nil {
		sendInternalError(ctx, msgFailedToLoadCart, err)
		return
	}
	total := cart.Total(cart.Merge(lines))
	if !total.IsPositive() {
		sendErrorResponse(ctx, http.StatusBadRequest, "Cart is empty")
		return
	}

	resp, err := h.payments.CreateOrder(reqCtx, total)
	if err != nil {
		logger(ctx).Error("Failed to create order", zap.Error(err))
		sendErrorResponse(ctx, http.StatusBadGateway, "Failed to create order.")
		return
	}
	if !resp.OK() {
		logger(ctx).Warn("Create order rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", resp.Body),
		)
	}

	relay(ctx, resp)
}

// CaptureOrder captures an approved order and relays the processor reply.
// A successful capture is recorded and announced; failures to do either are
// logged only, since the payment has already been taken.
func (h *Handler) CaptureOrder(ctx *gin.Context) {
	orderID := ctx.Param("orderID")
	claims, _ := middlewares.CurrentClaims(ctx)
	reqCtx := ctx.Request.Context()
	lg := logger(ctx).With(zap.String("order_id", orderID))

	resp, err := h.payments.CaptureOrder(reqCtx, orderID)
	if err != nil {
		lg.Error("Failed to capture order", zap.Error(err))
		sendErrorResponse(ctx, http.StatusBadGateway, "Failed to capture order.")
		return
	}
	if !resp.OK() {
		lg.Warn("Capture order failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", resp.Body),
		)
		relay(ctx, resp)
		return
	}

	capture, err := paypal.ParseCapture(resp.Body)
	if err != nil {
		lg.Error("Unreadable capture response", zap.Error(err))
		relay(ctx, resp)
		return
	}

	if capture.OrderID == "" {
		capture.OrderID = orderID
	}
	tx := models.Transaction{
		UserID:        claims.UserID,
		OrderID:       capture.OrderID,
		TransactionID: capture.TransactionID,
		Status:        capture.CaptureStatus,
		OrderStatus:   capture.Status,
		Amount:        capture.Amount,
		Currency:      capture.Currency,
		PayerEmail:    capture.PayerEmail,
		CreateTime:    capture.CreateTime,
		UpdateTime:    capture.UpdateTime,
	}
	if err := h.audit.RecordTransaction(reqCtx, &tx); err != nil {
		lg.Error("Failed to record transaction", zap.Error(err))
	}

	if err := h.events.PublishOrderCaptured(reqCtx, events.OrderCaptured{
		OrderID:       capture.OrderID,
		TransactionID: capture.TransactionID,
		UserID:        claims.UserID,
		PayerEmail:    capture.PayerEmail,
		Amount:        capture.Amount,
		Currency:      capture.Currency,
		CapturedAt:    h.now().UTC(),
	}); err != nil {
		lg.Error("Failed to publish order event", zap.Error(err))
	}

	relay(ctx, resp)
}

func relay(ctx *gin.Context, resp *paypal.Response) {
	ctx.Data(resp.StatusCode, "application/json; charset=utf-8", resp.Body)
}
