package lists

import (
	"context"
	"fmt"
)

// Service enforces list business rules over the repository.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the user's entries, optionally filtered by status.
func (s *Service) List(ctx context.Context, userID, statusFilter string) ([]Entry, error) {
	var status WatchStatus
	if statusFilter != "" {
		parsed, err := ParseWatchStatus(statusFilter)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	return s.repo.ListByUser(ctx, userID, status)
}

// Add puts an anime on the user's list. Completed entries keep their
// submitted progress; everything else starts where the user says.
func (s *Service) Add(ctx context.Context, entry Entry) (Entry, error) {
	if entry.AnimeID <= 0 {
		return Entry{}, fmt.Errorf("lists: anime id required")
	}
	if entry.Title == "" {
		return Entry{}, fmt.Errorf("lists: title required")
	}
	if entry.Status == "" {
		entry.Status = StatusPlanToWatch
	}
	if _, err := ParseWatchStatus(string(entry.Status)); err != nil {
		return Entry{}, err
	}
	if entry.Progress < 0 {
		return Entry{}, fmt.Errorf("lists: progress must not be negative")
	}
	if entry.Score < 0 || entry.Score > 10 {
		return Entry{}, fmt.Errorf("lists: score must be between 0 and 10")
	}
	return s.repo.Upsert(ctx, entry)
}

// UpdateParams carries the optional fields of a list update.
type UpdateParams struct {
	Status   *string
	Progress *int
	Score    *int
}

// Update applies a partial update to an existing entry.
func (s *Service) Update(ctx context.Context, userID string, animeID int, params UpdateParams) (Entry, error) {
	var status *WatchStatus
	if params.Status != nil {
		parsed, err := ParseWatchStatus(*params.Status)
		if err != nil {
			return Entry{}, err
		}
		status = &parsed
	}
	if params.Progress != nil && *params.Progress < 0 {
		return Entry{}, fmt.Errorf("lists: progress must not be negative")
	}
	if params.Score != nil && (*params.Score < 0 || *params.Score > 10) {
		return Entry{}, fmt.Errorf("lists: score must be between 0 and 10")
	}
	return s.repo.Update(ctx, userID, animeID, status, params.Progress, params.Score)
}

// Remove deletes an entry from the user's list.
func (s *Service) Remove(ctx context.Context, userID string, animeID int) error {
	return s.repo.Delete(ctx, userID, animeID)
}
