// Package admins implements the admin-record store and the guarded admin
// provisioning routes, including the one-time bootstrap path.
package admins

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anitrack/anitrack/internal/auth"
	"github.com/anitrack/anitrack/internal/shared"
)

const uniqueViolation = "23505"

// PGRepository implements auth.AdminStore using PostgreSQL. The admins table
// carries a unique constraint on user_id; that constraint is what makes
// concurrent bootstrap attempts resolve to exactly one super_admin.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

var _ auth.AdminStore = (*PGRepository)(nil)

// FindByUserID fetches the admin record owned by the user.
func (r *PGRepository) FindByUserID(ctx context.Context, userID string) (auth.AdminRecord, error) {
	const query = `SELECT id, user_id, role, permissions, created_by, created_at FROM admins WHERE user_id = $1`
	var (
		record auth.AdminRecord
		role   string
		perms  []string
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&record.ID, &record.UserID, &role, &perms, &record.CreatedBy, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.AdminRecord{}, shared.ErrNotFound
		}
		return auth.AdminRecord{}, err
	}
	if record.Role, err = auth.ParseRole(role); err != nil {
		return auth.AdminRecord{}, err
	}
	if record.Permissions, err = auth.ParsePermissions(perms); err != nil {
		return auth.AdminRecord{}, err
	}
	return record, nil
}

// Count returns the number of admin records system-wide.
func (r *PGRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Create inserts an admin record, mapping the unique violation on user_id
// to shared.ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, record auth.AdminRecord) (auth.AdminRecord, error) {
	const query = `
		INSERT INTO admins (id, user_id, role, permissions, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, role, permissions, created_by, created_at`
	var (
		created auth.AdminRecord
		role    string
		perms   []string
	)
	err := r.pool.QueryRow(ctx, query,
		record.ID, record.UserID, string(record.Role), record.Permissions.Strings(),
		record.CreatedBy, record.CreatedAt,
	).Scan(&created.ID, &created.UserID, &role, &perms, &created.CreatedBy, &created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.AdminRecord{}, shared.ErrDuplicate
		}
		return auth.AdminRecord{}, err
	}
	if created.Role, err = auth.ParseRole(role); err != nil {
		return auth.AdminRecord{}, err
	}
	if created.Permissions, err = auth.ParsePermissions(perms); err != nil {
		return auth.AdminRecord{}, err
	}
	return created, nil
}
