package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/whatnewads/safeshift-sub006/internal/models"
	apperrors "github.com/whatnewads/safeshift-sub006/pkg/errors"
	"github.com/whatnewads/safeshift-sub006/pkg/logger"
	"github.com/whatnewads/safeshift-sub006/pkg/metrics"
	appvalidator "github.com/whatnewads/safeshift-sub006/pkg/validator"
)

const (
	defaultPageLimit = 25
	maxPageLimit     = 100
)

// CreateInput defines attributes required to persist a notification.
type CreateInput struct {
	UserID    string         `json:"user_id" validate:"required"`
	Type      string         `json:"type" validate:"required"`
	Priority  string         `json:"priority"`
	Title     string         `json:"title" validate:"required"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	ExpiresAt *time.Time     `json:"expires_at"`
}

// ListInput defines filters for the paginated notification query.
type ListInput struct {
	UserID     string
	UnreadOnly bool
	Limit      int
	Offset     int
}

// Page is the envelope returned by ListForUser. Total and Unread always
// describe the user's full notification set, not the filtered page.
type Page struct {
	Notifications []View `json:"notifications"`
	Total         int64  `json:"total"`
	Unread        int64  `json:"unread"`
	Limit         int    `json:"limit"`
	Offset        int    `json:"offset"`
	HasMore       bool   `json:"has_more"`
}

// Manager orchestrates the notification lifecycle: validation and default
// derivation on create, read-state transitions, paginated retrieval with
// aggregate counts, role broadcast, and expiry cleanup. It keeps no state
// between calls beyond its injected collaborators.
type Manager struct {
	store     Store
	policy    ExpirationPolicy
	formatter *Formatter
	now       func() time.Time
	log       *zap.Logger
}

// Option customises the Manager.
type Option func(*Manager)

// WithPolicy overrides the default expiration policy.
func WithPolicy(policy ExpirationPolicy) Option {
	return func(m *Manager) {
		m.policy = policy
	}
}

// WithClock overrides the clock used for expiry computation and formatting,
// primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
			m.formatter = NewFormatterWithClock(now)
		}
	}
}

// NewManager constructs a Manager around the supplied store.
func NewManager(store Store, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.New("notification manager: store is required")
	}

	m := &Manager{
		store:     store,
		policy:    DefaultExpirationPolicy(),
		formatter: NewFormatter(),
		now:       time.Now,
		log:       logger.WithModule("notifications"),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Create validates the input, fills defaults, and persists one notification.
// Validation happens strictly before any store call; a failure leaves no
// partial state behind. The assigned identifier is returned.
func (m *Manager) Create(ctx context.Context, input CreateInput) (string, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.Type = strings.TrimSpace(input.Type)
	input.Title = strings.TrimSpace(input.Title)

	if err := appvalidator.ValidateStruct(input); err != nil {
		return "", apperrors.NewValidation(err.Error())
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !models.ValidPriority(priority) {
		return "", apperrors.NewValidation(fmt.Sprintf("priority %q is not one of low, normal, high, critical", priority))
	}

	now := m.now()
	expiresAt := input.ExpiresAt
	if expiresAt == nil {
		computed := m.policy.ExpiresAt(input.Type, now)
		expiresAt = &computed
	} else if expiresAt.Before(now) {
		return "", apperrors.NewValidation("expires_at must not be in the past")
	}

	notification := models.Notification{
		UserID:    input.UserID,
		Type:      input.Type,
		Priority:  priority,
		Title:     input.Title,
		Message:   input.Message,
		ExpiresAt: expiresAt,
	}

	if input.Data != nil {
		encoded, err := json.Marshal(input.Data)
		if err != nil {
			return "", fmt.Errorf("notification manager: marshal data: %w", err)
		}
		notification.Data = datatypes.JSON(encoded)
	}

	id, err := m.store.Create(ctx, &notification)
	if err != nil {
		return "", err
	}

	metrics.NotificationsCreated.WithLabelValues(notification.Type).Inc()
	m.log.Debug("notification created",
		zap.String("id", id),
		zap.String("user_id", notification.UserID),
		zap.String("type", notification.Type))

	return id, nil
}

// ListForUser retrieves a page of notifications together with the user's
// aggregate counts. Limit is clamped to [1, 100] (default 25) and negative
// offsets are clamped to zero. The page and the counts are two independent
// reads: under concurrent writes they may describe different instants, e.g.
// HasMore true with an empty next page. Callers needing a consistent snapshot
// must obtain it from the store directly.
func (m *Manager) ListForUser(ctx context.Context, input ListInput) (*Page, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, apperrors.NewValidation("user_id is required")
	}

	limit := clampLimit(input.Limit)
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := m.store.ListForUser(ctx, userID, input.UnreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}

	counts, err := m.store.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Page{
		Notifications: m.formatter.FormatAll(rows),
		Total:         counts.Total,
		Unread:        counts.Unread,
		Limit:         limit,
		Offset:        offset,
		HasMore:       int64(offset+limit) < counts.Total,
	}, nil
}

// ListByType returns formatted notifications of a single type, newest first,
// without pagination metadata.
func (m *Manager) ListByType(ctx context.Context, userID, notificationType string, limit int) ([]View, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.NewValidation("user_id is required")
	}
	notificationType = strings.TrimSpace(notificationType)
	if notificationType == "" {
		return nil, apperrors.NewValidation("type is required")
	}

	rows, err := m.store.ListByType(ctx, userID, notificationType, clampLimit(limit))
	if err != nil {
		return nil, err
	}

	return m.formatter.FormatAll(rows), nil
}

// MarkRead transitions the supplied notifications to read, skipping ones the
// user does not own or that are already read. It returns the number of
// notifications actually transitioned, so a repeated call yields zero.
func (m *Manager) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, apperrors.NewValidation("user_id is required")
	}

	return m.store.MarkRead(ctx, userID, ids)
}

// MarkAllRead transitions every unread notification owned by the user and
// returns the count transitioned.
func (m *Manager) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, apperrors.NewValidation("user_id is required")
	}

	return m.store.MarkAllRead(ctx, userID)
}

// HasUnread reports whether the user's aggregate unread count is positive.
func (m *Manager) HasUnread(ctx context.Context, userID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, apperrors.NewValidation("user_id is required")
	}

	counts, err := m.store.Counts(ctx, userID)
	if err != nil {
		return false, err
	}

	return counts.Unread > 0, nil
}

// CleanupExpired deletes every notification whose expiry has passed,
// regardless of owner or read state, and returns the count deleted. It is
// intended to be driven by an external scheduler.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	deleted, err := m.store.DeleteExpired(ctx, m.now())
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		metrics.NotificationsExpired.Add(float64(deleted))
		m.log.Info("expired notifications removed", zap.Int64("count", deleted))
	}

	return deleted, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultPageLimit
	case limit > maxPageLimit:
		return maxPageLimit
	}
	return limit
}
