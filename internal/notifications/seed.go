package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/whatnewads/safeshift-sub006/internal/models"
	apperrors "github.com/whatnewads/safeshift-sub006/pkg/errors"
)

// SeedSampleData inserts a fixed set of five illustrative notifications for a
// user who has none yet, and reports how many rows it inserted. The existence
// check and the batch write are separate store calls, so concurrent calls for
// the same new user can both pass the check and double-seed; this demo path
// accepts that race. Production seeding needs an atomic insert-if-absent from
// the store instead.
func (m *Manager) SeedSampleData(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, apperrors.NewValidation("user_id is required")
	}

	exists, err := m.store.HasAny(ctx, userID)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}

	now := m.now()
	batch := make([]*models.Notification, 0, len(sampleSeeds))
	for _, seed := range sampleSeeds {
		expiresAt := m.policy.ExpiresAt(seed.notificationType, now)

		row := &models.Notification{
			UserID:    userID,
			Type:      seed.notificationType,
			Priority:  seed.priority,
			Title:     seed.title,
			Message:   seed.message,
			ExpiresAt: &expiresAt,
		}
		if seed.data != nil {
			encoded, err := json.Marshal(seed.data)
			if err != nil {
				return 0, fmt.Errorf("notification manager: marshal sample data: %w", err)
			}
			row.Data = datatypes.JSON(encoded)
		}
		batch = append(batch, row)
	}

	if err := m.store.CreateBatch(ctx, batch); err != nil {
		return 0, err
	}

	m.log.Debug("sample notifications seeded",
		zap.String("user_id", userID),
		zap.Int("count", len(batch)))

	return len(batch), nil
}

type sampleSeed struct {
	notificationType string
	priority         string
	title            string
	message          string
	data             map[string]any
}

var sampleSeeds = []sampleSeed{
	{
		notificationType: models.TypeLabResult,
		priority:         models.PriorityNormal,
		title:            titleLabResult,
		message:          "Complete blood count results for Jordan Reyes are ready",
		data:             map[string]any{"patient_id": "sample-patient-1", "test_name": "Complete Blood Count"},
	},
	{
		notificationType: models.TypeAppointmentReminder,
		priority:         models.PriorityNormal,
		title:            titleAppointment,
		message:          "Follow-up with Jordan Reyes tomorrow at 09:30",
		data:             map[string]any{"appointment_id": "sample-appointment-1", "patient_name": "Jordan Reyes"},
	},
	{
		notificationType: models.TypeSystemAlert,
		priority:         models.PriorityLow,
		title:            "Scheduled Maintenance",
		message:          "The portal will be briefly unavailable on Sunday at 02:00",
	},
	{
		notificationType: models.TypePatientUpdate,
		priority:         models.PriorityNormal,
		title:            "Patient Record Updated",
		message:          "Care plan for Jordan Reyes was updated by Dr. Osei",
		data:             map[string]any{"patient_id": "sample-patient-1"},
	},
	{
		notificationType: models.TypePrescriptionAlert,
		priority:         models.PriorityHigh,
		title:            titlePrescription,
		message:          "2 prescriptions are awaiting renewal approval",
		data:             map[string]any{"prescription_ids": []string{"sample-rx-1", "sample-rx-2"}, "patient_count": 1},
	},
}
