package models

import "time"

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationNewMatch          NotificationType = "new_match"
	NotificationInterestReceived  NotificationType = "interest_received"
	NotificationInterestAccepted  NotificationType = "interest_accepted"
	NotificationMessageReceived   NotificationType = "message_received"
	NotificationMembershipExpiry  NotificationType = "membership_expiry"
	NotificationAdminAnnouncement NotificationType = "admin_announcement"
	NotificationProfileView       NotificationType = "profile_view"
)

// Notification is a per-user notification row.
type Notification struct {
	ID          int              `db:"id" json:"id"`
	UserID      int              `db:"user_id" json:"user_id"`
	Type        NotificationType `db:"type" json:"type"`
	Title       string           `db:"title" json:"title"`
	Message     string           `db:"message" json:"message"`
	IsRead      bool             `db:"is_read" json:"is_read"`
	SenderID    *int             `db:"sender_id" json:"sender_id,omitempty"`
	RedirectURL *string          `db:"redirect_url" json:"redirect_url,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// NewNotification carries the fields needed to create a notification.
type NewNotification struct {
	UserID      int
	Type        NotificationType
	Title       string
	Message     string
	SenderID    *int
	RedirectURL *string
}
