package handlers

import (
	"context"
	"net/http"
	"strconv"

	"servio/models"

	"github.com/gin-gonic/gin"
)

const defaultNotificationLimit = 50

type NotificationLister interface {
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error)
}

type NotificationHandler struct {
	Notifications NotificationLister
}

func NewNotificationHandler(n NotificationLister) *NotificationHandler {
	return &NotificationHandler{Notifications: n}
}

// List handles GET /api/notifications and returns the caller's newest notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	limit := defaultNotificationLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	items, err := h.Notifications.ListByRecipient(c.Request.Context(), actor.ID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []models.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}
