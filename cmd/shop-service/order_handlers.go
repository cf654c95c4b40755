package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitforge/kitshop/internal/cart"
	"github.com/kitforge/kitshop/internal/order"
)

func createOrderHandler(orders *order.Service, carts cart.Store, currency string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.CreateOrderInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}

		o, _, err := orders.CreateOrder(c.Request.Context(), in, currency)
		if err != nil {
			var verr *order.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": verr.Msg})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create order"})
			return
		}

		// The originating cart is consumed by a successful checkout. A failed
		// clear must not fail the order that is already committed.
		if _, err := carts.Clear(c.Request.Context(), sessionID(c)); err != nil {
			c.Error(err) //nolint:errcheck
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"order": gin.H{
				"id":            o.ID,
				"orderNumber":   o.OrderNumber,
				"totalAmount":   o.Total,
				"paymentMethod": o.PaymentMethod,
			},
		})
	}
}

func getOrderHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, items, err := orders.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load order"})
			return
		}
		if items == nil {
			items = []order.Item{}
		}
		c.JSON(http.StatusOK, gin.H{"order": o, "items": items})
	}
}

func updateOrderStatusHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}

		err := orders.UpdateFulfillmentStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			var verr *order.ValidationError
			switch {
			case errors.As(err, &verr):
				c.JSON(http.StatusBadRequest, gin.H{"error": verr.Msg})
			case errors.Is(err, order.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update order"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
