package notifications

import (
	"context"
	"time"
)

// Notification is an in-app message for a single user. The platform
// writes one instead of sending email (signup welcome, organization
// approval and rejection).
type Notification struct {
	ID        int64     `json:"notification_id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID int64) ([]Notification, error)
	// MarkRead flips is_read for a notification owned by userID.
	// Another user's notification is not-found, not forbidden.
	MarkRead(ctx context.Context, userID, notificationID int64) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}
