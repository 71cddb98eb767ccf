package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"table-order-backend/internal/model"
)

// GetTables handles GET /api/tables: the full roster, staff only.
func (h *Handler) GetTables(c *gin.Context) {
	if !h.requireStaff(c) {
		return
	}
	c.JSON(http.StatusOK, h.session.Tables())
}

// GetTable handles GET /api/tables/{table_id}.
func (h *Handler) GetTable(c *gin.Context) {
	if !h.requireStaff(c) {
		return
	}
	id, ok := tableIDParam(c)
	if !ok {
		return
	}

	t, found := h.session.Table(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

type patchTableRequest struct {
	Status      string `json:"status"`
	OrderStatus string `json:"order_status"`
}

// PatchTable handles PATCH /api/tables/{table_id}: freeing the table or
// advancing its open order's status.
func (h *Handler) PatchTable(c *gin.Context) {
	if !h.requireStaff(c) {
		return
	}
	id, ok := tableIDParam(c)
	if !ok {
		return
	}

	var req patchTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch {
	case req.Status == model.TableFree:
		if err := h.session.FreeTable(c.Request.Context(), id); err != nil {
			writeSessionError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	case req.OrderStatus != "":
		ord, err := h.session.SetOrderStatus(c.Request.Context(), id, req.OrderStatus)
		if err != nil {
			writeSessionError(c, err)
			return
		}
		c.JSON(http.StatusOK, ord)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
	}
}

type postTableItemRequest struct {
	ProductID   string `json:"product_id" binding:"required"`
	Observation string `json:"observation"`
}

// PostTableItem handles POST /api/tables/{table_id}/items: staff adding a
// single line to a table's open order.
func (h *Handler) PostTableItem(c *gin.Context) {
	if !h.requireStaff(c) {
		return
	}
	id, ok := tableIDParam(c)
	if !ok {
		return
	}

	var req postTableItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ord, err := h.session.AddLine(c.Request.Context(), id, req.ProductID, req.Observation)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

func tableIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("table_id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid table ID"})
		return 0, false
	}
	return id, true
}
