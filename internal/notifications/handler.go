package notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/middleware"
)

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the notification endpoints on an
// authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.list)
	rg.GET("/notifications/unread-count", h.unreadCount)
	rg.POST("/notifications/:id/read", h.markRead)
}

func (h *Handler) list(c *gin.Context) {
	user := middleware.CurrentUser(c)

	items, err := h.store.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load notifications"})
		return
	}
	if items == nil {
		items = []Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": items})
}

func (h *Handler) unreadCount(c *gin.Context) {
	user := middleware.CurrentUser(c)

	count, err := h.store.UnreadCount(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "unread": count})
}

func (h *Handler) markRead(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid notification id"})
		return
	}

	if err := h.store.MarkRead(c.Request.Context(), user.ID, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
