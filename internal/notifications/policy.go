package notifications

import (
	"time"

	"github.com/whatnewads/safeshift-sub006/internal/models"
)

const defaultRetentionDays = 30

var defaultRetentionWindows = map[string]int{
	models.TypeSystemAlert:         30,
	models.TypeAppointmentReminder: 7,
	models.TypePrescriptionAlert:   14,
	models.TypeLabResult:           90,
	models.TypePatientUpdate:       30,
	models.TypeCriticalAlert:       7,
	models.TypeMaintenance:         7,
}

// ExpirationPolicy maps notification types to retention windows in days.
// Values are fixed at construction; unknown types use the default window.
type ExpirationPolicy struct {
	windows     map[string]int
	defaultDays int
}

// DefaultExpirationPolicy returns the stock retention table.
func DefaultExpirationPolicy() ExpirationPolicy {
	return NewExpirationPolicy(defaultRetentionDays, defaultRetentionWindows)
}

// NewExpirationPolicy builds a policy from the supplied per-type windows.
// The map is copied so the policy stays immutable; non-positive values are
// ignored in favour of the default.
func NewExpirationPolicy(defaultDays int, windows map[string]int) ExpirationPolicy {
	if defaultDays <= 0 {
		defaultDays = defaultRetentionDays
	}

	copied := make(map[string]int, len(windows))
	for notificationType, days := range windows {
		if days > 0 {
			copied[notificationType] = days
		}
	}

	return ExpirationPolicy{windows: copied, defaultDays: defaultDays}
}

// RetentionDays returns the retention window for the supplied type.
func (p ExpirationPolicy) RetentionDays(notificationType string) int {
	if days, ok := p.windows[notificationType]; ok {
		return days
	}
	return p.defaultDays
}

// ExpiresAt computes the expiry timestamp for a notification created at the
// supplied instant.
func (p ExpirationPolicy) ExpiresAt(notificationType string, createdAt time.Time) time.Time {
	return createdAt.AddDate(0, 0, p.RetentionDays(notificationType))
}
