package community

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anitrack/anitrack/internal/shared"
)

const uniqueViolation = "23505"

// Repository defines persistence operations for communities.
type Repository interface {
	List(ctx context.Context, offset, limit int) ([]Community, int, error)
	Get(ctx context.Context, id string) (Community, error)
	Join(ctx context.Context, communityID, userID string) (Membership, error)
	Leave(ctx context.Context, communityID, userID string) error
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

// List returns a page of communities ordered by member count, plus the
// total for pagination metadata.
func (r *PGRepository) List(ctx context.Context, offset, limit int) ([]Community, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM communities`).Scan(&total); err != nil {
		return nil, 0, err
	}
	const query = `
		SELECT c.id, c.name, c.description, COALESCE(c.cover_image, ''), c.created_at,
			(SELECT COUNT(*) FROM community_members m WHERE m.community_id = c.id) AS member_count
		FROM communities c
		ORDER BY member_count DESC, c.name
		OFFSET $1 LIMIT $2`
	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var communities []Community
	for rows.Next() {
		var c Community
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CoverImage, &c.CreatedAt, &c.MemberCount); err != nil {
			return nil, 0, err
		}
		communities = append(communities, c)
	}
	return communities, total, rows.Err()
}

// Get fetches one community by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (Community, error) {
	const query = `
		SELECT c.id, c.name, c.description, COALESCE(c.cover_image, ''), c.created_at,
			(SELECT COUNT(*) FROM community_members m WHERE m.community_id = c.id)
		FROM communities c WHERE c.id = $1`
	var c Community
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.CoverImage, &c.CreatedAt, &c.MemberCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Community{}, shared.ErrNotFound
		}
		return Community{}, err
	}
	return c, nil
}

// Join adds the user to a community. Joining twice is a duplicate.
func (r *PGRepository) Join(ctx context.Context, communityID, userID string) (Membership, error) {
	const query = `
		INSERT INTO community_members (community_id, user_id)
		VALUES ($1, $2)
		RETURNING community_id, user_id, joined_at`
	var m Membership
	err := r.pool.QueryRow(ctx, query, communityID, userID).Scan(&m.CommunityID, &m.UserID, &m.JoinedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return Membership{}, shared.ErrDuplicate
			case "23503": // foreign key: community does not exist
				return Membership{}, shared.ErrNotFound
			}
		}
		return Membership{}, err
	}
	return m, nil
}

// Leave removes the user from a community.
func (r *PGRepository) Leave(ctx context.Context, communityID, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM community_members WHERE community_id = $1 AND user_id = $2`, communityID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
