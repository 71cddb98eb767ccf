package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// menuResponse is the customer-facing catalog snapshot.
type menuResponse struct {
	Categories any  `json:"categories"`
	Coupons    any  `json:"coupons"`
	Products   any  `json:"products"`
	Closed     bool `json:"closed"`
}

// GetMenu handles GET /api/menu. A closed store answers with an empty
// product list for customers; staff see the catalog regardless.
func (h *Handler) GetMenu(c *gin.Context) {
	staff := h.isStaff(c)
	cfg := h.session.Config()

	c.JSON(http.StatusOK, menuResponse{
		Categories: h.session.Categories(),
		Coupons:    h.session.Coupons(),
		Products:   h.session.VisibleProducts(staff),
		Closed:     cfg.Closed(),
	})
}
