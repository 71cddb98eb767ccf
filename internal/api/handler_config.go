package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"table-order-backend/internal/model"
)

// GetStoreConfig handles GET /api/config.
func (h *Handler) GetStoreConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Config())
}

// PutStoreConfig handles PUT /api/config: staff replacing the order-type
// toggles wholesale.
func (h *Handler) PutStoreConfig(c *gin.Context) {
	if !h.requireStaff(c) {
		return
	}

	var cfg model.StoreConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.session.UpdateStoreConfig(c.Request.Context(), cfg); err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Config())
}

// PostRefresh handles POST /api/refresh: staff forcing a bulk re-read
// after out-of-band changes.
func (h *Handler) PostRefresh(c *gin.Context) {
	if !h.requireStaff(c) {
		return
	}
	if err := h.session.Refresh(c.Request.Context()); err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": h.session.Status()})
}
