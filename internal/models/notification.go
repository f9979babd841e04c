package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification priorities accepted by the notification core.
const (
	PriorityLow      = "low"
	PriorityNormal   = "normal"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Well-known notification types. The type column is an open set; new
// producers may introduce values not listed here.
const (
	TypeSystemAlert         = "system_alert"
	TypeAppointmentReminder = "appointment_reminder"
	TypePrescriptionAlert   = "prescription_alert"
	TypeLabResult           = "lab_result"
	TypePatientUpdate       = "patient_update"
	TypeCriticalAlert       = "critical_alert"
	TypeMaintenance         = "maintenance"
)

// Notification represents an in-app notification for a user.
type Notification struct {
	BaseModel

	UserID   string         `gorm:"type:uuid;index;not null" json:"user_id"`
	Type     string         `gorm:"type:varchar(64);not null;index" json:"type"`
	Priority string         `gorm:"type:varchar(16);default:'normal'" json:"priority"`
	Title    string         `gorm:"type:varchar(255);not null" json:"title"`
	Message  string         `gorm:"type:text" json:"message"`
	Data     datatypes.JSON `json:"data"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at"`

	ExpiresAt *time.Time `gorm:"index" json:"expires_at"`
}

// ValidPriority reports whether the supplied priority is one of the known levels.
func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}
