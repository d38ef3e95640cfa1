package lists

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anitrack/anitrack/internal/shared"
)

const uniqueViolation = "23505"

// Repository defines persistence operations for list entries.
type Repository interface {
	ListByUser(ctx context.Context, userID string, status WatchStatus) ([]Entry, error)
	Upsert(ctx context.Context, entry Entry) (Entry, error)
	Update(ctx context.Context, userID string, animeID int, status *WatchStatus, progress, score *int) (Entry, error)
	Delete(ctx context.Context, userID string, animeID int) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

var _ Repository = (*PGRepository)(nil)

const entryColumns = `user_id, anime_id, title, COALESCE(cover_image, ''), status, progress, score, created_at, updated_at`

func scanEntry(row pgx.Row) (Entry, error) {
	var (
		entry  Entry
		status string
	)
	err := row.Scan(&entry.UserID, &entry.AnimeID, &entry.Title, &entry.CoverImage,
		&status, &entry.Progress, &entry.Score, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return Entry{}, err
	}
	entry.Status, err = ParseWatchStatus(status)
	return entry, err
}

// ListByUser returns a user's entries, optionally filtered by status.
func (r *PGRepository) ListByUser(ctx context.Context, userID string, status WatchStatus) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM list_entries WHERE user_id = $1 ORDER BY updated_at DESC`
	args := []any{userID}
	if status != "" {
		query = `SELECT ` + entryColumns + ` FROM list_entries WHERE user_id = $1 AND status = $2 ORDER BY updated_at DESC`
		args = append(args, string(status))
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Upsert inserts a new entry; adding an anime already on the list is a
// duplicate.
func (r *PGRepository) Upsert(ctx context.Context, entry Entry) (Entry, error) {
	const query = `
		INSERT INTO list_entries (user_id, anime_id, title, cover_image, status, progress, score)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		RETURNING ` + entryColumns
	created, err := scanEntry(r.pool.QueryRow(ctx, query,
		entry.UserID, entry.AnimeID, entry.Title, entry.CoverImage,
		string(entry.Status), entry.Progress, entry.Score))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Entry{}, shared.ErrDuplicate
		}
		return Entry{}, err
	}
	return created, nil
}

// Update applies the non-nil fields to an existing entry.
func (r *PGRepository) Update(ctx context.Context, userID string, animeID int, status *WatchStatus, progress, score *int) (Entry, error) {
	const query = `
		UPDATE list_entries SET
			status = COALESCE($3, status),
			progress = COALESCE($4, progress),
			score = COALESCE($5, score),
			updated_at = NOW()
		WHERE user_id = $1 AND anime_id = $2
		RETURNING ` + entryColumns
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}
	entry, err := scanEntry(r.pool.QueryRow(ctx, query, userID, animeID, statusArg, progress, score))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, shared.ErrNotFound
		}
		return Entry{}, err
	}
	return entry, nil
}

// Delete removes an entry from a user's list.
func (r *PGRepository) Delete(ctx context.Context, userID string, animeID int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM list_entries WHERE user_id = $1 AND anime_id = $2`, userID, animeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
