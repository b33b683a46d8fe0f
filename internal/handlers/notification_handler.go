package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/middleware"
	"github.com/reviewly/backend/internal/notify"
	"github.com/reviewly/backend/internal/repository"
)

type NotificationHandler struct {
	dispatcher       *notify.Dispatcher
	notificationRepo *repository.NotificationRepository
}

func NewNotificationHandler(dispatcher *notify.Dispatcher, notificationRepo *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{
		dispatcher:       dispatcher,
		notificationRepo: notificationRepo,
	}
}

// List returns the user's notifications, newest first, with the unread count
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	limit := 50
	offset := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			ErrorResponse(c, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			ErrorResponse(c, http.StatusBadRequest, "Invalid offset parameter")
			return
		}
		offset = n
	}

	notifications, err := h.notificationRepo.ListByUser(userID, limit, offset)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	unread, err := h.notificationRepo.UnreadCount(userID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to count unread notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// UnreadCount returns just the unread badge number
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := middleware.UserID(c)

	unread, err := h.notificationRepo.UnreadCount(userID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to count unread notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": unread})
}

// MarkRead flips one notification to read. Re-marking an already-read
// notification succeeds without changing its read timestamp.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	n, err := h.dispatcher.MarkRead(id, userID)
	if err != nil {
		if errors.Is(err, notify.ErrNotOwner) {
			ErrorResponse(c, http.StatusForbidden, "Notification does not belong to you")
			return
		}
		RepoErrorResponse(c, err, "Failed to mark notification read")
		return
	}

	c.JSON(http.StatusOK, n)
}

// MarkAllRead flips every unread notification, returning how many changed
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.UserID(c)

	count, err := h.dispatcher.MarkAllRead(userID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to mark notifications read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_read": count})
}

// Clear deletes the user's notifications, all of them or only those
// older than ?older_than_days=
func (h *NotificationHandler) Clear(c *gin.Context) {
	userID := middleware.UserID(c)

	olderThan := 0
	if raw := c.Query("older_than_days"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d <= 0 {
			ErrorResponse(c, http.StatusBadRequest, "Invalid older_than_days parameter")
			return
		}
		olderThan = d
	}

	count, err := h.dispatcher.Clear(userID, olderThan)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to clear notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": count})
}
