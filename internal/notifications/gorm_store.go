package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/whatnewads/safeshift-sub006/internal/models"
)

// GormStore implements Store on top of a gorm.DB handle.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore constructs a GormStore.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, errors.New("notification store: db is required")
	}
	return &GormStore{db: db}, nil
}

// Migrate ensures the notifications table exists.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Notification{}); err != nil {
		return fmt.Errorf("notification store: migrate: %w", err)
	}
	return nil
}

// Create persists a single notification.
func (s *GormStore) Create(ctx context.Context, notification *models.Notification) (string, error) {
	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return "", fmt.Errorf("notification store: create: %w", err)
	}
	return notification.ID, nil
}

// CreateBatch persists the supplied notifications in a single insert.
func (s *GormStore) CreateBatch(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&notifications).Error; err != nil {
		return fmt.Errorf("notification store: create batch: %w", err)
	}
	return nil
}

// CreateForRole fans the template out to every active member of the role.
// Membership resolution and the insert run in one transaction so the set of
// recipients is consistent with a single point in time.
func (s *GormStore) CreateForRole(ctx context.Context, role string, template models.Notification) (int64, error) {
	var created int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var userIDs []string
		if err := tx.Model(&models.User{}).
			Joins("JOIN user_roles ON user_roles.user_id = users.id").
			Joins("JOIN roles ON roles.id = user_roles.role_id").
			Where("(roles.id = ? OR roles.name = ?) AND users.is_active = ?", role, role, true).
			Pluck("users.id", &userIDs).Error; err != nil {
			return fmt.Errorf("resolve role members: %w", err)
		}

		if len(userIDs) == 0 {
			return nil
		}

		batch := make([]*models.Notification, 0, len(userIDs))
		for _, userID := range userIDs {
			row := template
			row.ID = ""
			row.UserID = userID
			batch = append(batch, &row)
		}

		if err := tx.Create(&batch).Error; err != nil {
			return fmt.Errorf("insert role batch: %w", err)
		}

		created = int64(len(batch))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("notification store: create for role: %w", err)
	}

	return created, nil
}

// ListForUser returns a page of notifications ordered newest first.
func (s *GormStore) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)

	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var rows []models.Notification
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("notification store: list for user: %w", err)
	}
	return rows, nil
}

// ListByType returns the newest notifications of one type for a user.
func (s *GormStore) ListByType(ctx context.Context, userID, notificationType string, limit int) ([]models.Notification, error) {
	var rows []models.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, notificationType).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("notification store: list by type: %w", err)
	}
	return rows, nil
}

// Counts returns the user's aggregate totals. The two counts are separate
// queries and may straddle concurrent writes.
func (s *GormStore) Counts(ctx context.Context, userID string) (Counts, error) {
	var counts Counts

	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Count(&counts.Total).Error; err != nil {
		return Counts{}, fmt.Errorf("notification store: count total: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&counts.Unread).Error; err != nil {
		return Counts{}, fmt.Errorf("notification store: count unread: %w", err)
	}

	return counts, nil
}

// MarkRead flips unread notifications to read. The is_read guard keeps the
// operation idempotent and the returned count limited to actual transitions.
func (s *GormStore) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	ids = normaliseIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND id IN ? AND is_read = ?", userID, ids, false).
		Updates(map[string]any{
			"is_read": true,
			"read_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("notification store: mark read: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// MarkAllRead flips every unread notification owned by the user.
func (s *GormStore) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	now := time.Now().UTC()
	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{
			"is_read": true,
			"read_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("notification store: mark all read: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// HasAny reports whether the user owns at least one notification.
func (s *GormStore) HasAny(ctx context.Context, userID string) (bool, error) {
	var row models.Notification
	err := s.db.WithContext(ctx).
		Select("id").
		Where("user_id = ?", userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("notification store: has any: %w", err)
	}
	return true, nil
}

// DeleteExpired removes all notifications whose expiry precedes now.
func (s *GormStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("notification store: delete expired: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// normaliseIDs trims, de-duplicates, and drops empty identifiers.
func normaliseIDs(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
