// Package lists implements per-user anime lists: watch status, episode
// progress and scores.
package lists

import (
	"fmt"
	"time"
)

// WatchStatus is the closed set of list states.
type WatchStatus string

const (
	StatusWatching    WatchStatus = "watching"
	StatusCompleted   WatchStatus = "completed"
	StatusOnHold      WatchStatus = "on_hold"
	StatusDropped     WatchStatus = "dropped"
	StatusPlanToWatch WatchStatus = "plan_to_watch"
)

// ParseWatchStatus validates a persisted or submitted status value.
func ParseWatchStatus(s string) (WatchStatus, error) {
	switch WatchStatus(s) {
	case StatusWatching, StatusCompleted, StatusOnHold, StatusDropped, StatusPlanToWatch:
		return WatchStatus(s), nil
	}
	return "", fmt.Errorf("lists: unknown watch status %q", s)
}

// Entry is one anime on a user's list.
type Entry struct {
	UserID     string      `json:"userId"`
	AnimeID    int         `json:"animeId"`
	Title      string      `json:"title"`
	CoverImage string      `json:"coverImage,omitempty"`
	Status     WatchStatus `json:"status"`
	Progress   int         `json:"progress"`
	Score      int         `json:"score,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}
