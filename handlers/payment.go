package handlers

import (
	"context"
	"net/http"
	"time"

	"pharmabook/services/flow"
	"pharmabook/services/payment"
	"pharmabook/services/session"
	"pharmabook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// paidAwaiter polls an order's payment status with a bounded budget.
type paidAwaiter interface {
	AwaitPaid(ctx context.Context, orderID string, interval time.Duration, maxAttempts int) (bool, error)
}

// PaymentHandler exposes the payment step: gateway session creation and the
// post-payment confirmation sequence.
type PaymentHandler struct {
	Payments payment.PaymentService
	Awaiter  paidAwaiter
	Machine  *flow.Machine
	Sessions *session.Mirror
}

// CreateSessionHandler handles POST /api/booking/:slug/payment/session.
func (h *PaymentHandler) CreateSessionHandler(c *gin.Context) {
	logger := utils.GetLogger()
	slug := c.Param("slug")
	scope := sessionScope(h.Sessions, c)

	orderID := scope.OrderID(c.Request.Context(), slug)
	if orderID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "no draft order for this booking"})
		return
	}

	secret, err := h.Payments.CreateSession(c.Request.Context(), orderID)
	if err != nil {
		logger.Error("Payment session creation failed",
			zap.String("slug", slug), zap.String("orderId", orderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment session creation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId":      orderID,
		"clientSecret": secret,
	})
}

// StatusHandler handles GET /api/booking/:slug/payment/status. Gateways that
// settle asynchronously report the outcome out of band; this endpoint polls
// the order until it reads paid or the attempt budget runs out.
func (h *PaymentHandler) StatusHandler(c *gin.Context) {
	logger := utils.GetLogger()
	slug := c.Param("slug")
	scope := sessionScope(h.Sessions, c)

	orderID := scope.OrderID(c.Request.Context(), slug)
	if orderID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "no draft order for this booking"})
		return
	}

	paid, err := h.Awaiter.AwaitPaid(c.Request.Context(), orderID, 2*time.Second, 5)
	if err != nil {
		logger.Error("Payment status poll failed",
			zap.String("slug", slug), zap.String("orderId", orderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment status poll failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": orderID, "paid": paid})
}

// ConfirmPaymentHandler handles POST /api/booking/:slug/payment/confirm.
// On a successful gateway outcome the confirmation sequence runs and the
// wizard advances to the success step, purging transient booking state.
func (h *PaymentHandler) ConfirmPaymentHandler(c *gin.Context) {
	logger := utils.GetLogger()
	slug := c.Param("slug")
	scope := sessionScope(h.Sessions, c)
	ctx := c.Request.Context()

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	orderID := scope.OrderID(ctx, slug)
	if orderID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "no draft order for this booking"})
		return
	}

	status := payment.GatewayStatus(req.Status)
	if err := h.Payments.Confirm(ctx, scope, slug, orderID, status); err != nil {
		logger.Warn("Payment confirmation rejected",
			zap.String("slug", slug), zap.String("orderId", orderID),
			zap.String("status", req.Status), zap.Error(err))
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		return
	}

	// The caller sits on the payment step; advancing lands on success and
	// triggers the one-time purge of slug-scoped state.
	st := flow.State{Authenticated: currentUserID(c) != "", CartEmpty: true}
	step, err := h.Machine.Advance(ctx, scope, slug, st)
	if err != nil {
		logger.Warn("Post-payment step advance blocked",
			zap.String("slug", slug), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId": orderID,
		"step":    step,
	})
}
