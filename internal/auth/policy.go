package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/anitrack/anitrack/internal/shared"
)

// AdminStore is the external admin-record collaborator. Create must enforce
// at most one record per user_id atomically (unique constraint), which is
// what arbitrates concurrent bootstrap attempts across process instances.
type AdminStore interface {
	FindByUserID(ctx context.Context, userID string) (AdminRecord, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, record AdminRecord) (AdminRecord, error)
}

// Policy evaluates role and permission requirements against the admin store.
// Evaluation is read-only; Bootstrap and Provision are the two write paths.
type Policy struct {
	admins AdminStore
	now    func() time.Time
}

// NewPolicy constructs a Policy over the given store.
func NewPolicy(admins AdminStore) *Policy {
	return &Policy{admins: admins, now: time.Now}
}

// Authorize checks that the identity holds an admin record satisfying the
// required role tier and permission. PermissionNone skips the permission
// check and tests role presence alone. Two calls with no intervening store
// mutation yield the same decision.
func (p *Policy) Authorize(ctx context.Context, identity Identity, requiredRole Role, requiredPerm Permission) (AdminRecord, error) {
	record, err := p.admins.FindByUserID(ctx, identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			return AdminRecord{}, errNotAdmin
		case errors.Is(err, ErrMalformedRecord):
			return AdminRecord{}, errCorruptRecord
		}
		return AdminRecord{}, errStoreUnavailable
	}
	if !record.Role.Covers(requiredRole) {
		return AdminRecord{}, errInsufficient
	}
	if requiredPerm != PermissionNone && !record.Permissions.Has(requiredPerm) {
		return AdminRecord{}, errInsufficient
	}
	return record, nil
}

// Bootstrap provisions the very first admin. When no admin records exist
// system-wide the requesting identity self-provisions as super_admin with
// the full permission set. Once any record exists the path closes: the same
// user replaying the request gets a conflict, anyone else gets not_admin.
// The store's unique constraint decides races between concurrent bootstraps.
func (p *Policy) Bootstrap(ctx context.Context, identity Identity) (AdminRecord, error) {
	_, err := p.admins.FindByUserID(ctx, identity.UserID)
	switch {
	case err == nil:
		return AdminRecord{}, errAlreadyAdmin
	case errors.Is(err, ErrMalformedRecord):
		return AdminRecord{}, errCorruptRecord
	case !errors.Is(err, shared.ErrNotFound):
		return AdminRecord{}, errStoreUnavailable
	}

	total, err := p.admins.Count(ctx)
	if err != nil {
		return AdminRecord{}, errStoreUnavailable
	}
	if total > 0 {
		return AdminRecord{}, errNotAdmin
	}

	record := AdminRecord{
		ID:          uuid.NewString(),
		UserID:      identity.UserID,
		Role:        RoleSuperAdmin,
		Permissions: FullPermissions(),
		CreatedAt:   p.now(),
	}
	record.CreatedBy = record.ID // self-reference marks the bootstrap admin

	created, err := p.admins.Create(ctx, record)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			// Lost the race against a concurrent bootstrap.
			return AdminRecord{}, errAlreadyAdmin
		}
		return AdminRecord{}, errStoreUnavailable
	}
	return created, nil
}

// Provision creates an admin record on behalf of an already-privileged
// actor. Unless the actor explicitly elevates the grant, the new record
// gets the lesser admin role with the restricted default permission set.
func (p *Policy) Provision(ctx context.Context, actor AdminRecord, userID string, role Role, perms PermissionSet) (AdminRecord, error) {
	if role == "" {
		role = RoleAdmin
	}
	if len(perms) == 0 {
		perms = DefaultAdminPermissions()
	}
	record := AdminRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Role:        role,
		Permissions: perms,
		CreatedBy:   actor.ID,
		CreatedAt:   p.now(),
	}
	created, err := p.admins.Create(ctx, record)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			return AdminRecord{}, errAlreadyAdmin
		}
		return AdminRecord{}, errStoreUnavailable
	}
	return created, nil
}
