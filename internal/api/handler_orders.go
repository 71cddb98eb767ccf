package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"table-order-backend/internal/session"
)

// PostOrder handles POST /api/orders: a customer (or staff) submitting a
// cart. A 409 response means the allocated virtual slot was lost to a
// concurrent claim and the client should simply retry.
func (h *Handler) PostOrder(c *gin.Context) {
	var req session.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Staff = h.isStaff(c)

	ord, err := h.session.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ord)
}
