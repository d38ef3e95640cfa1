// Package analytics aggregates product metrics for the admin dashboard.
package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anitrack/anitrack/internal/platform/db"
)

// Overview is the admin dashboard summary.
type Overview struct {
	TotalUsers       int64            `json:"totalUsers"`
	NewUsersLast7d   int64            `json:"newUsersLast7d"`
	TotalListEntries int64            `json:"totalListEntries"`
	EntriesByStatus  map[string]int64 `json:"entriesByStatus"`
	TotalCommunities int64            `json:"totalCommunities"`
	TopAnime         []TopAnime       `json:"topAnime"`
	GeneratedAt      time.Time        `json:"generatedAt"`
}

// TopAnime is one row of the most-listed ranking.
type TopAnime struct {
	AnimeID int    `json:"animeId"`
	Title   string `json:"title"`
	Count   int64  `json:"count"`
}

// Service runs the aggregation queries.
type Service struct {
	pool *pgxpool.Pool
}

// NewService constructs a Service over the given pool.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// Overview computes the dashboard summary. All counts run inside one
// repeatable-read transaction so they describe the same snapshot.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	out := Overview{
		EntriesByStatus: make(map[string]int64),
		GeneratedAt:     time.Now().UTC(),
	}

	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&out.TotalUsers); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM users WHERE created_at >= NOW() - INTERVAL '7 days'`,
		).Scan(&out.NewUsersLast7d); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM list_entries`).Scan(&out.TotalListEntries); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM communities`).Scan(&out.TotalCommunities); err != nil {
			return err
		}

		statusRows, err := tx.Query(ctx, `SELECT status, COUNT(*) FROM list_entries GROUP BY status`)
		if err != nil {
			return err
		}
		defer statusRows.Close()
		for statusRows.Next() {
			var (
				status string
				count  int64
			)
			if err := statusRows.Scan(&status, &count); err != nil {
				return err
			}
			out.EntriesByStatus[status] = count
		}
		if err := statusRows.Err(); err != nil {
			return err
		}

		topRows, err := tx.Query(ctx, `
			SELECT anime_id, MIN(title), COUNT(*) AS cnt
			FROM list_entries
			GROUP BY anime_id
			ORDER BY cnt DESC
			LIMIT 10`)
		if err != nil {
			return err
		}
		defer topRows.Close()
		for topRows.Next() {
			var row TopAnime
			if err := topRows.Scan(&row.AnimeID, &row.Title, &row.Count); err != nil {
				return err
			}
			out.TopAnime = append(out.TopAnime, row)
		}
		return topRows.Err()
	})
	if err != nil {
		return Overview{}, err
	}
	return out, nil
}
