// Package audit persists privileged-action records and serves the admin
// timeline view over them.
package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anitrack/anitrack/internal/auth"
)

// PGStore implements auth.AuditStore over the append-only audit_logs table.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PostgreSQL audit store.
func NewStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

var _ auth.AuditStore = (*PGStore)(nil)

// Insert appends one audit entry. Entries are never updated or deleted.
func (s *PGStore) Insert(ctx context.Context, entry auth.AuditEntry) error {
	meta, err := json.Marshal(entry.Metadata)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO audit_logs (id, actor_id, action, resource_type, resource_id, meta, occurred_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)`,
		entry.ID, entry.ActorID, entry.Action, entry.ResourceType, entry.ResourceID, meta, entry.At)
	return err
}
