package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/whatnewads/safeshift-sub006/internal/models"
)

// View is the presentation shape handed to API consumers.
type View struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Type      string         `json:"type"`
	Priority  string         `json:"priority"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	IsRead    bool           `json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	TimeAgo   string         `json:"time_ago"`
}

// Formatter turns raw notification rows into presentation views. The clock is
// injectable so relative ages are deterministic in tests.
type Formatter struct {
	now func() time.Time
}

// NewFormatter constructs a Formatter using the wall clock.
func NewFormatter() *Formatter {
	return &Formatter{now: time.Now}
}

// NewFormatterWithClock constructs a Formatter with a custom clock.
func NewFormatterWithClock(now func() time.Time) *Formatter {
	if now == nil {
		now = time.Now
	}
	return &Formatter{now: now}
}

// Format maps a stored notification into its presentation view.
func (f *Formatter) Format(row models.Notification) View {
	priority := row.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}

	return View{
		ID:        row.ID,
		UserID:    row.UserID,
		Type:      row.Type,
		Priority:  priority,
		Title:     row.Title,
		Message:   row.Message,
		Data:      decodeData(row.Data),
		IsRead:    row.IsRead,
		ReadAt:    row.ReadAt,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
		TimeAgo:   relativeAge(row.CreatedAt, f.now()),
	}
}

// FormatAll maps a slice of rows, preserving order.
func (f *Formatter) FormatAll(rows []models.Notification) []View {
	views := make([]View, 0, len(rows))
	for _, row := range rows {
		views = append(views, f.Format(row))
	}
	return views
}

// decodeData decodes the stored payload blob. Absent or malformed payloads
// yield an empty map, never an error.
func decodeData(data datatypes.JSON) map[string]any {
	if len(data) == 0 {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

// relativeAge renders the age of a notification in coarse human buckets.
// Anything a week or older falls back to the absolute date.
func relativeAge(createdAt, now time.Time) string {
	age := now.Sub(createdAt)

	switch {
	case age < time.Minute:
		return "Just now"
	case age < time.Hour:
		return pluralise(int(age/time.Minute), "minute")
	case age < 24*time.Hour:
		return pluralise(int(age/time.Hour), "hour")
	case age < 7*24*time.Hour:
		return pluralise(int(age/(24*time.Hour)), "day")
	default:
		return createdAt.Format("Jan 2, 2006")
	}
}

func pluralise(value int, unit string) string {
	if value > 1 {
		return fmt.Sprintf("%d %ss ago", value, unit)
	}
	return fmt.Sprintf("%d %s ago", value, unit)
}
