package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/anitrack/anitrack/internal/anime"
)

// TrendingWarmupJob refreshes the cached trending listing ahead of expiry.
type TrendingWarmupJob struct {
	service *anime.Service
	logger  *slog.Logger
}

// NewTrendingWarmupJob constructs the job.
func NewTrendingWarmupJob(service *anime.Service, logger *slog.Logger) *TrendingWarmupJob {
	return &TrendingWarmupJob{service: service, logger: logger}
}

// Handle processes TaskTrendingWarmup tasks.
func (j *TrendingWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload TrendingWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if err := j.service.WarmTrending(ctx, payload.PerPage); err != nil {
		j.logger.Warn("trending warmup", slog.Any("error", err))
		return err
	}
	return nil
}
