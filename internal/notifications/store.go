package notifications

import (
	"context"
	"time"

	"github.com/whatnewads/safeshift-sub006/internal/models"
)

// Counts aggregates a user's full notification set, independent of any page.
type Counts struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
}

// Store is the persistence capability consumed by the Manager. Implementations
// own schema, query execution, and their transactional guarantees; the Manager
// never retries and surfaces Store failures unchanged.
type Store interface {
	// Migrate ensures the backing schema exists.
	Migrate(ctx context.Context) error

	// Create persists a single notification and returns the assigned id.
	Create(ctx context.Context, notification *models.Notification) (string, error)

	// CreateBatch persists the supplied notifications in one write.
	CreateBatch(ctx context.Context, notifications []*models.Notification) error

	// CreateForRole materialises one copy of the template per active member of
	// the role and returns the number of notifications created.
	CreateForRole(ctx context.Context, role string, template models.Notification) (int64, error)

	// ListForUser returns a page of notifications ordered newest first.
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, error)

	// ListByType returns the newest notifications of one type for a user.
	ListByType(ctx context.Context, userID, notificationType string, limit int) ([]models.Notification, error)

	// Counts returns total and unread counts across the user's notifications.
	Counts(ctx context.Context, userID string) (Counts, error)

	// MarkRead transitions the given unread notifications owned by the user to
	// read and returns the number of rows actually transitioned.
	MarkRead(ctx context.Context, userID string, ids []string) (int64, error)

	// MarkAllRead transitions every unread notification owned by the user.
	MarkAllRead(ctx context.Context, userID string) (int64, error)

	// HasAny reports whether the user owns at least one notification.
	HasAny(ctx context.Context, userID string) (bool, error)

	// DeleteExpired removes every notification whose expiry precedes now,
	// regardless of owner or read state, and returns the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
