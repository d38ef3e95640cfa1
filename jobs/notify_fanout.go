package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/anitrack/anitrack/internal/notifications"
)

// NotifyFanOutJob delivers admin broadcasts into per-user inbox rows.
type NotifyFanOutJob struct {
	repo   notifications.Repository
	logger *slog.Logger
}

// NewNotifyFanOutJob constructs the job.
func NewNotifyFanOutJob(repo notifications.Repository, logger *slog.Logger) *NotifyFanOutJob {
	return &NotifyFanOutJob{repo: repo, logger: logger}
}

// Handle processes TaskNotifyFanOut tasks. The insert is idempotent per
// broadcast, so Asynq retries after partial failures are safe.
func (j *NotifyFanOutJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload NotifyFanOutPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.BroadcastID == "" || payload.Title == "" {
		return asynq.SkipRetry
	}
	delivered, err := j.repo.FanOut(ctx, payload.BroadcastID, payload.Title, payload.Body)
	if err != nil {
		j.logger.Error("notification fan-out",
			slog.String("broadcast_id", payload.BroadcastID),
			slog.Any("error", err))
		return err
	}
	j.logger.Info("notification fan-out delivered",
		slog.String("broadcast_id", payload.BroadcastID),
		slog.String("actor_id", payload.ActorID),
		slog.Int64("delivered", delivered))
	return nil
}
