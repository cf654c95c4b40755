package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kitforge/kitshop/internal/catalog"
)

func listKitsHandler(kits catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		q := catalog.Query{Q: c.Query("q"), Limit: limit, Offset: offset}

		items, err := kits.List(c.Request.Context(), q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list kits"})
			return
		}
		if items == nil {
			items = []catalog.Kit{}
		}
		c.JSON(http.StatusOK, catalog.ListResponse{Q: q.Q, Limit: q.Limit, Offset: q.Offset, Items: items})
	}
}

func getKitHandler(kits catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		k, err := kits.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "kit not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load kit"})
			return
		}
		c.JSON(http.StatusOK, k)
	}
}
