package jobs

import (
	"context"

	"github.com/anitrack/anitrack/internal/notifications"
)

// EnqueueBroadcast implements notifications.Broadcaster over the queue.
func (c *Client) EnqueueBroadcast(ctx context.Context, broadcastID, actorID, title, body string) error {
	_, err := c.EnqueueNotifyFanOut(ctx, NotifyFanOutPayload{
		BroadcastID: broadcastID,
		ActorID:     actorID,
		Title:       title,
		Body:        body,
	})
	return err
}

var _ notifications.Broadcaster = (*Client)(nil)
