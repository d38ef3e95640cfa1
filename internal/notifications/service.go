package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Broadcaster enqueues a broadcast for asynchronous fan-out.
type Broadcaster interface {
	EnqueueBroadcast(ctx context.Context, broadcastID, actorID, title, body string) error
}

// Service coordinates the inbox reads and broadcast writes.
type Service struct {
	repo        Repository
	broadcaster Broadcaster
}

// NewService constructs a new Service.
func NewService(repo Repository, broadcaster Broadcaster) *Service {
	return &Service{repo: repo, broadcaster: broadcaster}
}

// Broadcast enqueues an admin notification for fan-out to every user and
// returns the broadcast ID. Delivery happens in the background worker.
func (s *Service) Broadcast(ctx context.Context, actorID, title, body string) (string, error) {
	if s.broadcaster == nil {
		return "", fmt.Errorf("notifications: broadcaster not configured")
	}
	broadcastID := uuid.NewString()
	if err := s.broadcaster.EnqueueBroadcast(ctx, broadcastID, actorID, title, body); err != nil {
		return "", err
	}
	return broadcastID, nil
}

// Inbox returns the newest notifications for a user.
func (s *Service) Inbox(ctx context.Context, userID string, limit int) ([]Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

// MarkRead marks one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}
