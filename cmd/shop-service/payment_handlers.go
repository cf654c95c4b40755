package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kitforge/kitshop/internal/order"
	"github.com/kitforge/kitshop/internal/payment"
)

func createPaymentHandler(orders *order.Service, gateway *payment.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			OrderID string `json:"orderId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
			return
		}

		o, _, err := orders.GetByID(c.Request.Context(), req.OrderID)
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load order"})
			return
		}
		if o.PaymentMethod != order.MethodGateway {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order is not payable through the gateway"})
			return
		}
		if o.PaymentStatus != order.PaymentPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order is not awaiting payment"})
			return
		}

		token, err := gateway.RegisterTransaction(c.Request.Context(), o)
		if err != nil {
			// the client already logged the gateway's reason; don't leak it
			var gerr *payment.GatewayError
			if errors.As(err, &gerr) {
				c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment initiation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "paymentUrl": gateway.RedirectURL(token)})
	}
}

// paymentWebhookHandler is the unauthenticated trust boundary: the signature
// is the sole trust mechanism and is verified before any side effect. Success
// is acknowledged only after the status write committed, so gateway retries
// can never cause a lost confirmation.
func paymentWebhookHandler(reconciler *payment.Reconciler, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var n payment.Notification
		if err := c.ShouldBindJSON(&n); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}

		err := reconciler.Reconcile(c.Request.Context(), n)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"success": true})
		case errors.Is(err, payment.ErrBadSignature):
			// no detail about which field diverged
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		case errors.Is(err, order.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, payment.ErrAmountMismatch):
			c.JSON(http.StatusConflict, gin.H{"error": "amount mismatch"})
		default:
			// a confirmed payment must never be dropped: signal the gateway
			// to retry
			log.Error("webhook reconciliation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
		}
	}
}
