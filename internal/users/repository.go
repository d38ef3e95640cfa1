// Package users implements the user/identity store and profile routes.
package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anitrack/anitrack/internal/auth"
	"github.com/anitrack/anitrack/internal/shared"
)

const uniqueViolation = "23505"

// Profile is a user record with the public fields profile routes expose.
type Profile struct {
	auth.Identity
	AvatarURL string    `json:"avatarUrl"`
	Bio       string    `json:"bio"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Repository defines persistence operations for the users module. It is a
// superset of auth.UserStore: the gateway resolves identities through it and
// the profile routes read and mutate the rest.
type Repository interface {
	auth.UserStore
	GetProfile(ctx context.Context, userID string) (Profile, error)
	UpdateProfile(ctx context.Context, userID string, displayName, avatarURL, bio *string) (Profile, error)
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

// FindBySubject fetches the identity behind a verified credential subject.
func (r *PGRepository) FindBySubject(ctx context.Context, subjectID string) (auth.Identity, error) {
	const query = `SELECT id, email, display_name, created_at FROM users WHERE id = $1`
	var identity auth.Identity
	err := r.pool.QueryRow(ctx, query, subjectID).Scan(
		&identity.UserID, &identity.Email, &identity.DisplayName, &identity.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Identity{}, shared.ErrNotFound
		}
		return auth.Identity{}, err
	}
	return identity, nil
}

// FindByEmail fetches a user with its password hash for sign-in.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (auth.UserCredentials, error) {
	const query = `SELECT id, email, display_name, created_at, password_hash FROM users WHERE email = $1`
	var creds auth.UserCredentials
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&creds.UserID, &creds.Email, &creds.DisplayName, &creds.CreatedAt, &creds.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.UserCredentials{}, shared.ErrNotFound
		}
		return auth.UserCredentials{}, err
	}
	return creds, nil
}

// Create inserts a new user record.
func (r *PGRepository) Create(ctx context.Context, params auth.CreateUserParams) (auth.Identity, error) {
	const query = `
		INSERT INTO users (email, display_name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, display_name, created_at`
	var identity auth.Identity
	err := r.pool.QueryRow(ctx, query, params.Email, params.DisplayName, params.PasswordHash).Scan(
		&identity.UserID, &identity.Email, &identity.DisplayName, &identity.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.Identity{}, shared.ErrDuplicate
		}
		return auth.Identity{}, err
	}
	return identity, nil
}

// GetProfile fetches the full profile for a user.
func (r *PGRepository) GetProfile(ctx context.Context, userID string) (Profile, error) {
	const query = `
		SELECT id, email, display_name, COALESCE(avatar_url, ''), COALESCE(bio, ''), created_at, updated_at
		FROM users WHERE id = $1`
	var p Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.Email, &p.DisplayName, &p.AvatarURL, &p.Bio, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, shared.ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

// UpdateProfile applies the non-nil fields and returns the updated profile.
func (r *PGRepository) UpdateProfile(ctx context.Context, userID string, displayName, avatarURL, bio *string) (Profile, error) {
	const query = `
		UPDATE users SET
			display_name = COALESCE($2, display_name),
			avatar_url = COALESCE($3, avatar_url),
			bio = COALESCE($4, bio),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, email, display_name, COALESCE(avatar_url, ''), COALESCE(bio, ''), created_at, updated_at`
	var p Profile
	err := r.pool.QueryRow(ctx, query, userID, displayName, avatarURL, bio).Scan(
		&p.UserID, &p.Email, &p.DisplayName, &p.AvatarURL, &p.Bio, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, shared.ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
