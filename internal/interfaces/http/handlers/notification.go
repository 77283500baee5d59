// internal/interfaces/http/handlers/notification.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/your-org/gardenops-backend/internal/domain/notification"
)

// NotificationHandler handles in-app notification endpoints
type NotificationHandler struct {
	notifications *notification.Service
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *notification.Service) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
	}
}

// List returns the actor's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.notifications.ListForUser(actor.ID, unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	unread, err := h.notifications.UnreadCount(actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkRead marks one notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(id, actor.ID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Notification marked as read", nil)
}

// MarkAllRead marks all of the actor's notifications as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkAllRead(actor.ID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "All notifications marked as read", nil)
}
