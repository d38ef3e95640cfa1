// Package jobs defines the background task types and the Asynq worker
// processing them.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskNotifyFanOut fans an admin broadcast out to per-user inbox rows.
	TaskNotifyFanOut = "notify:fanout"
	// TaskTrendingWarmup refreshes the cached trending listing.
	TaskTrendingWarmup = "anime:trending_warmup"
)

// NotifyFanOutPayload describes one admin broadcast to deliver.
type NotifyFanOutPayload struct {
	BroadcastID string `json:"broadcast_id"`
	ActorID     string `json:"actor_id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

// NewNotifyFanOutTask constructs the fan-out task.
func NewNotifyFanOutTask(payload NotifyFanOutPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotifyFanOut, data), nil
}

// TrendingWarmupPayload configures the cache warmup run.
type TrendingWarmupPayload struct {
	PerPage int `json:"per_page"`
}

// NewTrendingWarmupTask constructs the warmup task.
func NewTrendingWarmupTask(perPage int) (*asynq.Task, error) {
	data, err := json.Marshal(TrendingWarmupPayload{PerPage: perPage})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTrendingWarmup, data), nil
}
