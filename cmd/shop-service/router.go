package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kitforge/kitshop/internal/cart"
	"github.com/kitforge/kitshop/internal/catalog"
	"github.com/kitforge/kitshop/internal/httpx"
	"github.com/kitforge/kitshop/internal/order"
	"github.com/kitforge/kitshop/internal/payment"
)

type deps struct {
	log        *zap.Logger
	kits       catalog.Repository
	carts      cart.Store
	orders     *order.Service
	currency   string
	gateway    *payment.Client
	reconciler *payment.Reconciler
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(d.log))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.GET("/kits", listKitsHandler(d.kits))
	r.GET("/kits/:id", getKitHandler(d.kits))

	r.GET("/cart", getCartHandler(d.carts))
	r.POST("/cart/add", addCartItemHandler(d.carts, d.kits))
	r.POST("/cart/remove", removeCartItemHandler(d.carts))
	r.POST("/cart/update", updateCartItemHandler(d.carts))
	r.POST("/cart/clear", clearCartHandler(d.carts))

	r.POST("/orders", createOrderHandler(d.orders, d.carts, d.currency))
	r.GET("/orders/:id", getOrderHandler(d.orders))
	r.PUT("/orders/:id/status", updateOrderStatusHandler(d.orders))

	r.POST("/payment", createPaymentHandler(d.orders, d.gateway))
	r.POST("/payment/webhook", paymentWebhookHandler(d.reconciler, d.log))

	return r
}
