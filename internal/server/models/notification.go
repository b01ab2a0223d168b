package models

import "time"

// PushToken is one device registration. A user may hold several.
type PushToken struct {
	ID        string
	UserID    string
	Token     string
	Platform  string
	CreatedAt time.Time
}

// NotificationSetting controls whether a user receives push notifications
// for shared entries. Users without a stored row are treated as enabled.
type NotificationSetting struct {
	UserID         string
	EntriesEnabled bool
	SocialEnabled  bool
	UpdatedAt      time.Time
}

// Notification is one queued delivery. Rows stay pending until the
// dispatcher picks them up.
type Notification struct {
	ID           string
	UserID       string
	EntryID      string
	Title        string
	Body         string
	Status       string
	CreatedAt    time.Time
	DispatchedAt *time.Time
}

const (
	NotificationPending    = "pending"
	NotificationDispatched = "dispatched"
)
