package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whatnewads/safeshift-sub006/internal/middleware"
	"github.com/whatnewads/safeshift-sub006/internal/notifications"
	apperrors "github.com/whatnewads/safeshift-sub006/pkg/errors"
	"github.com/whatnewads/safeshift-sub006/pkg/response"
)

// NotificationHandler exposes HTTP endpoints for the notification core.
type NotificationHandler struct {
	manager     *notifications.Manager
	seedEnabled bool
}

// NewNotificationHandler constructs a notification handler.
func NewNotificationHandler(manager *notifications.Manager, seedEnabled bool) (*NotificationHandler, error) {
	if manager == nil {
		return nil, errors.New("notification handler: manager is required")
	}
	return &NotificationHandler{manager: manager, seedEnabled: seedEnabled}, nil
}

// List returns a page of notifications plus aggregate counts for the current user.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	page, err := h.manager.ListForUser(c.Request.Context(), notifications.ListInput{
		UserID:     userID,
		UnreadOnly: parseBoolQuery(c, "unread_only"),
		Limit:      parseIntQuery(c, "limit", 25),
		Offset:     parseIntQuery(c, "offset", 0),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, page.Notifications, &response.Meta{
		Total:   page.Total,
		Unread:  page.Unread,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: page.HasMore,
	})
}

// ListByType returns the newest notifications of one type for the current user.
func (h *NotificationHandler) ListByType(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	views, err := h.manager.ListByType(c.Request.Context(), userID, c.Param("type"), parseIntQuery(c, "limit", 25))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, views)
}

// Unread reports whether the current user has unread notifications.
func (h *NotificationHandler) Unread(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	unread, err := h.manager.HasUnread(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"has_unread": unread})
}

// MarkRead transitions the supplied notifications to read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	var payload struct {
		IDs []string `json:"ids" validate:"required,min=1"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	updated, err := h.manager.MarkRead(c.Request.Context(), userID, payload.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

// MarkAllRead transitions every unread notification owned by the current user.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	updated, err := h.manager.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

// Create persists a notification on behalf of internal producers.
func (h *NotificationHandler) Create(c *gin.Context) {
	var payload struct {
		UserID    string         `json:"user_id" validate:"required"`
		Type      string         `json:"type" validate:"required"`
		Priority  string         `json:"priority"`
		Title     string         `json:"title" validate:"required"`
		Message   string         `json:"message"`
		Data      map[string]any `json:"data"`
		ExpiresAt *time.Time     `json:"expires_at"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	id, err := h.manager.Create(c.Request.Context(), notifications.CreateInput{
		UserID:    payload.UserID,
		Type:      payload.Type,
		Priority:  payload.Priority,
		Title:     payload.Title,
		Message:   payload.Message,
		Data:      payload.Data,
		ExpiresAt: payload.ExpiresAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"id": id})
}

// Broadcast fans a system notification out to every member of a role.
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var payload struct {
		Role     string `json:"role" validate:"required"`
		Title    string `json:"title" validate:"required"`
		Message  string `json:"message"`
		Priority string `json:"priority"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	created, err := h.manager.CreateSystemForRole(c.Request.Context(), payload.Role, payload.Title, payload.Message, payload.Priority)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"created": created})
}

// Seed inserts demo notifications for the current user when enabled.
func (h *NotificationHandler) Seed(c *gin.Context) {
	if !h.seedEnabled {
		response.Error(c, apperrors.ErrNotFound)
		return
	}

	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	inserted, err := h.manager.SeedSampleData(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"inserted": inserted})
}
