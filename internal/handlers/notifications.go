package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/services"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/telemetry"
)

// NotificationHandler manages the caller's notifications and admin announcements.
type NotificationHandler struct {
	notifier *services.Notifier
	audit    *telemetry.AuditEmitter
}

// NewNotificationHandler builds a NotificationHandler.
func NewNotificationHandler(notifier *services.Notifier, audit *telemetry.AuditEmitter) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, audit: audit}
}

// ListNotifications returns the caller's newest notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	list, err := h.notifier.List(c.Request.Context(), identityFromContext(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// UnreadCount returns how many of the caller's notifications are unread.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notifier.UnreadCount(c.Request.Context(), identityFromContext(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, ok := intParam(c, "notification_id")
	if !ok {
		return
	}
	if err := h.notifier.MarkOne(c.Request.Context(), notificationID, identityFromContext(c).UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MarkAllRead marks every notification of the caller as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	changed, err := h.notifier.MarkAll(c.Request.Context(), identityFromContext(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": changed})
}

// Announce creates an admin announcement for one user. It is not pushed live.
func (h *NotificationHandler) Announce(c *gin.Context) {
	var req struct {
		UserID  int    `json:"user_id" binding:"required"`
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	identity := identityFromContext(c)
	created, err := h.notifier.Announce(c.Request.Context(), identity, req.UserID, req.Title, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "announcement sent", fmt.Sprintf("notification_id=%d user_id=%d", created.ID, created.UserID), requestIDFromContext(c), identity.UserID)
	c.JSON(http.StatusCreated, created)
}
