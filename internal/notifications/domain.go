// Package notifications implements admin broadcast notifications: enqueue,
// fan-out to per-user rows, and the user-facing inbox.
package notifications

import "time"

// Notification is one message in a user's inbox.
type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
}
