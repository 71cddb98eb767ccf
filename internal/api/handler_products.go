package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"table-order-backend/internal/model"
)

// PostProduct handles POST /api/products: staff inserting a catalog item.
// A missing id is generated server-side.
func (h *Handler) PostProduct(c *gin.Context) {
	if !h.requireStaff(c) {
		return
	}

	var p model.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = ""

	saved, err := h.session.SaveProduct(c.Request.Context(), p)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// PutProduct handles PUT /api/products/{product_id}.
func (h *Handler) PutProduct(c *gin.Context) {
	if !h.requireStaff(c) {
		return
	}

	var p model.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = c.Param("product_id")

	saved, err := h.session.SaveProduct(c.Request.Context(), p)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// DeleteProduct handles DELETE /api/products/{product_id}.
func (h *Handler) DeleteProduct(c *gin.Context) {
	if !h.requireStaff(c) {
		return
	}

	if err := h.session.DeleteProduct(c.Request.Context(), c.Param("product_id")); err != nil {
		writeSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
