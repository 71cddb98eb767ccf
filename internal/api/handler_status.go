package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStatus handles GET /api/status: sync state plus the live alert, for
// the staff panel to poll.
func (h *Handler) GetStatus(c *gin.Context) {
	if !h.requireStaff(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": h.session.Status(),
		"alert":  h.session.Alert(),
	})
}

// DismissAlert handles DELETE /api/alerts: staff acknowledging the live
// alert before it expires on its own.
func (h *Handler) DismissAlert(c *gin.Context) {
	if !h.requireStaff(c) {
		return
	}
	h.session.DismissAlert()
	c.Status(http.StatusNoContent)
}
