package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/whatnewads/safeshift-sub006/internal/models"
)

func TestDefaultExpirationPolicyTable(t *testing.T) {
	policy := DefaultExpirationPolicy()

	cases := map[string]int{
		models.TypeSystemAlert:         30,
		models.TypeAppointmentReminder: 7,
		models.TypePrescriptionAlert:   14,
		models.TypeLabResult:           90,
		models.TypePatientUpdate:       30,
		models.TypeCriticalAlert:       7,
		models.TypeMaintenance:         7,
	}

	for notificationType, days := range cases {
		require.Equal(t, days, policy.RetentionDays(notificationType), notificationType)
	}
}

func TestExpirationPolicyUnknownTypeUsesDefault(t *testing.T) {
	policy := DefaultExpirationPolicy()
	require.Equal(t, 30, policy.RetentionDays("shift_swap_request"))
}

func TestExpirationPolicyExpiresAt(t *testing.T) {
	policy := DefaultExpirationPolicy()
	createdAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	expires := policy.ExpiresAt(models.TypeLabResult, createdAt)
	require.Equal(t, createdAt.AddDate(0, 0, 90), expires)
	require.False(t, expires.Before(createdAt))
}

func TestNewExpirationPolicyOverridesAndImmutability(t *testing.T) {
	windows := map[string]int{
		models.TypeLabResult: 10,
		"bogus":              -5,
	}
	policy := NewExpirationPolicy(3, windows)

	require.Equal(t, 10, policy.RetentionDays(models.TypeLabResult))
	require.Equal(t, 3, policy.RetentionDays("bogus"))
	require.Equal(t, 3, policy.RetentionDays(models.TypeSystemAlert))

	// Mutating the source map must not leak into the policy.
	windows[models.TypeLabResult] = 99
	require.Equal(t, 10, policy.RetentionDays(models.TypeLabResult))
}
