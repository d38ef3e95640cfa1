package auth

import (
	"context"
	"errors"

	"github.com/anitrack/anitrack/internal/shared"
)

// UserCredentials pairs an Identity with its stored password hash.
// Only the sign-in flow reads the hash.
type UserCredentials struct {
	Identity
	PasswordHash string
}

// CreateUserParams carries the fields needed to provision a user record.
type CreateUserParams struct {
	Email        string
	DisplayName  string
	PasswordHash string
}

// UserStore is the external user/identity collaborator.
type UserStore interface {
	FindBySubject(ctx context.Context, subjectID string) (Identity, error)
	FindByEmail(ctx context.Context, email string) (UserCredentials, error)
	Create(ctx context.Context, params CreateUserParams) (Identity, error)
}

// Resolver maps a verified subject to a current user record. Every call is
// a fresh store read so role and account changes take effect on the next
// request; nothing is cached.
type Resolver struct {
	users UserStore
}

// NewResolver constructs a Resolver over the given store.
func NewResolver(users UserStore) *Resolver {
	return &Resolver{users: users}
}

// Resolve looks up the subject in the user store. A missing record means
// the account no longer exists and yields invalid_identity; transport
// failures yield store_unavailable so the caller can retry the request.
func (r *Resolver) Resolve(ctx context.Context, subject Subject) (Identity, error) {
	identity, err := r.users.FindBySubject(ctx, subject.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Identity{}, errInvalidIdentity
		}
		return Identity{}, errStoreUnavailable
	}
	return identity, nil
}
