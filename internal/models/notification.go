package models

import "time"

// Notification types
const (
	NotificationTypeAlert  = "alert"
	NotificationTypeSystem = "system"
	NotificationTypeInfo   = "info"
)

type Notification struct {
	ID      int       `json:"id"`
	UserID  int       `json:"user_id"`
	AlertID *int      `json:"alert_id,omitempty"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Type    string    `json:"type"` // alert, system, info
	IsRead  bool      `json:"is_read"`
	SentAt  time.Time `json:"sent_at"`
}

// IsAlertRelated reports whether the notification announces an alert change.
func (n *Notification) IsAlertRelated() bool {
	return n.Type == NotificationTypeAlert || n.AlertID != nil
}
