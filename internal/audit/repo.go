package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGTimelineRepository reads timeline windows from audit_logs.
type PGTimelineRepository struct {
	pool *pgxpool.Pool
}

// NewTimelineRepository constructs a timeline repository.
func NewTimelineRepository(pool *pgxpool.Pool) *PGTimelineRepository {
	return &PGTimelineRepository{pool: pool}
}

var _ Repository = (*PGTimelineRepository)(nil)

// TimelineWindow fetches a window of audit entries, newest first.
func (r *PGTimelineRepository) TimelineWindow(ctx context.Context, filters TimelineFilters, offset, limit int) ([]TimelineRow, error) {
	const query = `
		SELECT occurred_at, actor_id, action, resource_type, COALESCE(resource_id, ''), meta
		FROM audit_logs
		WHERE ($1::timestamptz IS NULL OR occurred_at >= $1)
		  AND ($2::timestamptz IS NULL OR occurred_at <= $2)
		  AND ($3::text IS NULL OR actor_id = $3)
		  AND ($4::text IS NULL OR action = $4)
		ORDER BY occurred_at DESC
		OFFSET $5 LIMIT $6`
	rows, err := r.pool.Query(ctx, query,
		toPgTime(filters.From), toPgTime(filters.To),
		optionalText(filters.ActorID), optionalText(filters.Action),
		offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TimelineRow
	for rows.Next() {
		var (
			row  TimelineRow
			meta []byte
		)
		if err := rows.Scan(&row.At, &row.ActorID, &row.Action, &row.ResourceType, &row.ResourceID, &meta); err != nil {
			return nil, err
		}
		row.Metadata, err = decodeMetadata(meta)
		if err != nil {
			return nil, fmt.Errorf("audit: row %s/%s at %s: %w", row.ActorID, row.Action, row.At.Format(time.RFC3339), err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// decodeMetadata parses the stored JSONB blob. A row that fails to decode
// is reported rather than rendered with empty metadata.
func decodeMetadata(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var meta map[string]any
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return meta, nil
}

func toPgTime(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optionalText(value string) pgtype.Text {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: trimmed, Valid: true}
}
