// Package auth implements the authentication and authorization gateway:
// bearer-token verification, identity resolution against the user store,
// role/permission policy evaluation, and the route guard composing them.
package auth

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrMalformedRecord marks a persisted admin record whose role or permission
// tokens fall outside the closed sets. Unlike a store outage it is not
// retryable; the row itself is bad.
var ErrMalformedRecord = errors.New("malformed admin record")

// Subject is the identity claim embedded in a verified credential,
// prior to resolution against the user store.
type Subject struct {
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is a resolved, store-backed user record.
type Identity struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Role is a privilege tier. Rank order: RoleAdmin < RoleSuperAdmin.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

var roleRanks = map[Role]int{
	RoleAdmin:      1,
	RoleSuperAdmin: 2,
}

// Rank returns the numeric rank of the role, 0 for unknown roles.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Covers reports whether r satisfies the required role tier.
func (r Role) Covers(required Role) bool {
	return r.Rank() >= required.Rank()
}

// ParseRole validates a persisted role value.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleSuperAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("auth: unknown role %q: %w", s, ErrMalformedRecord)
}

// Permission is a single capability token. The set is closed: persisted
// values outside it are rejected at load time rather than silently ignored.
type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionWrite  Permission = "write"
	PermissionDelete Permission = "delete"
	PermissionAdmin  Permission = "admin"

	// PermissionNone skips the permission check, leaving only the role tier.
	PermissionNone Permission = ""
)

var knownPermissions = map[Permission]struct{}{
	PermissionRead:   {},
	PermissionWrite:  {},
	PermissionDelete: {},
	PermissionAdmin:  {},
}

// PermissionSet is the capability grant attached to an AdminRecord.
type PermissionSet map[Permission]struct{}

// FullPermissions returns the complete grant given to the bootstrap admin.
func FullPermissions() PermissionSet {
	return PermissionSet{
		PermissionRead:   {},
		PermissionWrite:  {},
		PermissionDelete: {},
		PermissionAdmin:  {},
	}
}

// DefaultAdminPermissions is the restricted grant for provisioned admins
// that were not explicitly elevated.
func DefaultAdminPermissions() PermissionSet {
	return PermissionSet{
		PermissionRead:  {},
		PermissionWrite: {},
	}
}

// Has reports whether the set contains the permission.
func (ps PermissionSet) Has(p Permission) bool {
	_, ok := ps[p]
	return ok
}

// Strings returns the sorted string form for persistence.
func (ps PermissionSet) Strings() []string {
	out := make([]string, 0, len(ps))
	for p := range ps {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

// ParsePermissions validates persisted capability tokens against the known
// set. Any unknown token fails the whole load.
func ParsePermissions(tokens []string) (PermissionSet, error) {
	set := make(PermissionSet, len(tokens))
	for _, t := range tokens {
		p := Permission(t)
		if _, ok := knownPermissions[p]; !ok {
			return nil, fmt.Errorf("auth: unknown permission %q: %w", t, ErrMalformedRecord)
		}
		set[p] = struct{}{}
	}
	return set, nil
}

// AdminRecord grants a Role and a PermissionSet to an Identity.
// At most one record exists per user; the store enforces uniqueness.
type AdminRecord struct {
	ID          string        `json:"adminId"`
	UserID      string        `json:"userId"`
	Role        Role          `json:"role"`
	Permissions PermissionSet `json:"-"`
	CreatedBy   string        `json:"createdBy"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// AuditEntry records one privileged action, append-only.
type AuditEntry struct {
	ID           string
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	Metadata     map[string]any
	At           time.Time
}
