package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitforge/kitshop/internal/cart"
	"github.com/kitforge/kitshop/internal/catalog"
)

func getCartHandler(carts cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ct, err := carts.Get(c.Request.Context(), sessionID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
			return
		}
		c.JSON(http.StatusOK, ct)
	}
}

// addCartItemHandler resolves the kit from the catalog and snapshots its
// sku/name/price into the cart, so the cart keeps the add-time price even if
// the catalog changes later.
func addCartItemHandler(carts cart.Store, kits catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductKitID string `json:"productKitId"`
			Quantity     int    `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		k, err := kits.GetByID(c.Request.Context(), req.ProductKitID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "kit not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load kit"})
			return
		}

		ct, err := carts.Add(c.Request.Context(), sessionID(c), cart.Item{
			ProductKitID: k.ID,
			SKU:          k.SKU,
			Name:         k.Name,
			UnitPrice:    k.Price,
			Quantity:     req.Quantity,
		})
		if err != nil {
			if errors.Is(err, cart.ErrInvalidItem) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update cart"})
			return
		}
		c.JSON(http.StatusOK, ct)
	}
}

func removeCartItemHandler(carts cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductKitID string `json:"productKitId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		ct, err := carts.Remove(c.Request.Context(), sessionID(c), req.ProductKitID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update cart"})
			return
		}
		c.JSON(http.StatusOK, ct)
	}
}

func updateCartItemHandler(carts cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductKitID string `json:"productKitId"`
			Quantity     int    `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		ct, err := carts.UpdateQuantity(c.Request.Context(), sessionID(c), req.ProductKitID, req.Quantity)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update cart"})
			return
		}
		c.JSON(http.StatusOK, ct)
	}
}

func clearCartHandler(carts cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ct, err := carts.Clear(c.Request.Context(), sessionID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear cart"})
			return
		}
		c.JSON(http.StatusOK, ct)
	}
}
