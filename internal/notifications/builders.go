package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/whatnewads/safeshift-sub006/internal/models"
	apperrors "github.com/whatnewads/safeshift-sub006/pkg/errors"
	"github.com/whatnewads/safeshift-sub006/pkg/metrics"
)

// Default titles and messages used by the typed constructors when the caller
// leaves them blank.
const (
	titleLabResult         = "New Lab Result Available"
	titleLabResultCritical = "Critical Lab Result"
	titleAppointment       = "Upcoming Appointment"
	titlePrescription      = "Prescription Action Required"

	messageLabResult         = "A new lab result is ready for review"
	messageLabResultCritical = "A critical lab result requires immediate review"
	messageAppointment       = "You have an upcoming appointment"
	messagePrescription      = "One or more prescriptions need your attention"
	messageCritical          = "A critical alert requires your attention"
)

// CreateCritical persists a critical_alert notification. Priority is always
// critical; the payload map passes through untouched.
func (m *Manager) CreateCritical(ctx context.Context, userID, title, message string, data map[string]any) (string, error) {
	if strings.TrimSpace(message) == "" {
		message = messageCritical
	}

	return m.Create(ctx, CreateInput{
		UserID:   userID,
		Type:     models.TypeCriticalAlert,
		Priority: models.PriorityCritical,
		Title:    title,
		Message:  message,
		Data:     data,
	})
}

// LabResultInput describes a lab result notification.
type LabResultInput struct {
	UserID    string
	PatientID string
	LabID     string
	TestName  string
	Critical  bool
	Message   string
}

// CreateLabResult persists a lab_result notification. Critical results get a
// high priority and a distinct title.
func (m *Manager) CreateLabResult(ctx context.Context, input LabResultInput) (string, error) {
	title := titleLabResult
	priority := models.PriorityNormal
	message := input.Message
	if input.Critical {
		title = titleLabResultCritical
		priority = models.PriorityHigh
		if message == "" {
			message = messageLabResultCritical
		}
	}
	if message == "" {
		message = messageLabResult
	}

	data := map[string]any{
		"patient_id": input.PatientID,
	}
	if input.LabID != "" {
		data["lab_id"] = input.LabID
	}
	if input.TestName != "" {
		data["test_name"] = input.TestName
	}

	return m.Create(ctx, CreateInput{
		UserID:   input.UserID,
		Type:     models.TypeLabResult,
		Priority: priority,
		Title:    title,
		Message:  message,
		Data:     data,
	})
}

// AppointmentReminderInput describes an appointment reminder notification.
type AppointmentReminderInput struct {
	UserID          string
	AppointmentID   string
	AppointmentTime *time.Time
	PatientName     string
	Message         string
}

// CreateAppointmentReminder persists an appointment_reminder notification.
func (m *Manager) CreateAppointmentReminder(ctx context.Context, input AppointmentReminderInput) (string, error) {
	message := input.Message
	if message == "" {
		message = messageAppointment
	}

	data := map[string]any{}
	if input.AppointmentID != "" {
		data["appointment_id"] = input.AppointmentID
	}
	if input.AppointmentTime != nil {
		data["appointment_time"] = input.AppointmentTime.Format(time.RFC3339)
	}
	if input.PatientName != "" {
		data["patient_name"] = input.PatientName
	}

	return m.Create(ctx, CreateInput{
		UserID:  input.UserID,
		Type:    models.TypeAppointmentReminder,
		Title:   titleAppointment,
		Message: message,
		Data:    data,
	})
}

// PrescriptionAlertInput describes a prescription alert notification.
type PrescriptionAlertInput struct {
	UserID          string
	Title           string
	Message         string
	PrescriptionIDs []string
	PatientCount    int
	Urgent          bool
}

// CreatePrescriptionAlert persists a prescription_alert notification. Urgent
// alerts get a high priority.
func (m *Manager) CreatePrescriptionAlert(ctx context.Context, input PrescriptionAlertInput) (string, error) {
	title := input.Title
	if title == "" {
		title = titlePrescription
	}
	message := input.Message
	if message == "" {
		message = messagePrescription
	}
	priority := models.PriorityNormal
	if input.Urgent {
		priority = models.PriorityHigh
	}

	prescriptionIDs := input.PrescriptionIDs
	if prescriptionIDs == nil {
		prescriptionIDs = []string{}
	}

	return m.Create(ctx, CreateInput{
		UserID:   input.UserID,
		Type:     models.TypePrescriptionAlert,
		Priority: priority,
		Title:    title,
		Message:  message,
		Data: map[string]any{
			"prescription_ids": prescriptionIDs,
			"patient_count":    input.PatientCount,
		},
	})
}

// CreateSystemForRole fans a system_alert notification out to every active
// member of the role and returns the number of notifications created. The
// store resolves role membership atomically relative to its own consistency
// model; this is a fan-out write, not a single record.
func (m *Manager) CreateSystemForRole(ctx context.Context, role, title, message, priority string) (int64, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return 0, apperrors.NewValidation("role is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, apperrors.NewValidation("title is required")
	}

	if priority == "" {
		priority = models.PriorityNormal
	}
	if !models.ValidPriority(priority) {
		return 0, apperrors.NewValidation("priority " + priority + " is not one of low, normal, high, critical")
	}

	now := m.now()
	expiresAt := m.policy.ExpiresAt(models.TypeSystemAlert, now)

	template := models.Notification{
		Type:      models.TypeSystemAlert,
		Priority:  priority,
		Title:     title,
		Message:   message,
		ExpiresAt: &expiresAt,
	}

	created, err := m.store.CreateForRole(ctx, role, template)
	if err != nil {
		return 0, err
	}

	if created > 0 {
		metrics.NotificationsCreated.WithLabelValues(models.TypeSystemAlert).Add(float64(created))
	}
	metrics.BroadcastFanout.Observe(float64(created))

	return created, nil
}
