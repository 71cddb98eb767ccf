package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"table-order-backend/internal/mw"
	"table-order-backend/internal/session"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	session  *session.Session
	db       *gorm.DB
	webpush  *webpush.Options
	staffKey string
}

// NewHandler creates a new API handler.
func NewHandler(s *session.Session, db *gorm.DB, webpushOptions *webpush.Options, staffKey string) *Handler {
	return &Handler{
		session:  s,
		db:       db,
		webpush:  webpushOptions,
		staffKey: staffKey,
	}
}

// isStaff reports whether the request carries the shared staff key. Real
// authentication is the shell's concern; this only separates the staff
// surface from the customer one.
func (h *Handler) isStaff(c *gin.Context) bool {
	return h.staffKey != "" && c.GetHeader(mw.StaffKeyHeader) == h.staffKey
}

// requireStaff aborts with 403 unless the request is a staff request.
func (h *Handler) requireStaff(c *gin.Context) bool {
	if !h.isStaff(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff key required"})
		return false
	}
	return true
}

// writeSessionError maps core failures onto HTTP statuses.
func writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrStoreClosed):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrAllocationConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrTableNotFound),
		errors.Is(err, session.ErrProductNotFound),
		errors.Is(err, session.ErrNoOpenOrder):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrEmptyOrder),
		errors.Is(err, session.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
