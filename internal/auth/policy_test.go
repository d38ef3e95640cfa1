package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anitrack/anitrack/internal/auth"
)

var testIdentity = auth.Identity{UserID: "user-1", Email: "one@test.local"}

func TestAuthorizeNoAdminRecord(t *testing.T) {
	policy := auth.NewPolicy(newMockAdminStore())
	_, err := policy.Authorize(context.Background(), testIdentity, auth.RoleAdmin, auth.PermissionRead)
	assert.Equal(t, auth.ReasonNotAdmin, rejectionCode(t, err))
}

func TestAuthorizeStoreUnavailable(t *testing.T) {
	store := newMockAdminStore()
	store.findErr = errors.New("connection refused")
	policy := auth.NewPolicy(store)
	_, err := policy.Authorize(context.Background(), testIdentity, auth.RoleAdmin, auth.PermissionRead)
	assert.Equal(t, auth.ReasonStoreUnavailable, rejectionCode(t, err))
}

func TestAuthorizeCorruptRecordIsNotRetryable(t *testing.T) {
	store := newMockAdminStore()
	// A persisted permission token outside the closed set fails the load;
	// the caller must not see it as a transient store outage.
	_, parseErr := auth.ParsePermissions([]string{"read", "sudo"})
	require.Error(t, parseErr)
	store.findErr = parseErr

	policy := auth.NewPolicy(store)
	_, err := policy.Authorize(context.Background(), testIdentity, auth.RoleAdmin, auth.PermissionRead)
	rej, ok := auth.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, auth.ReasonInternal, rej.Code)
	assert.Equal(t, 500, rej.Status)

	_, err = policy.Bootstrap(context.Background(), testIdentity)
	assert.Equal(t, auth.ReasonInternal, rejectionCode(t, err))
}

func TestAuthorizePermissionMatrix(t *testing.T) {
	store := newMockAdminStore()
	store.add(auth.AdminRecord{
		ID:          "admin-1",
		UserID:      testIdentity.UserID,
		Role:        auth.RoleAdmin,
		Permissions: auth.DefaultAdminPermissions(), // read, write
	})
	policy := auth.NewPolicy(store)
	ctx := context.Background()

	tests := []struct {
		name     string
		role     auth.Role
		perm     auth.Permission
		wantCode auth.ReasonCode
	}{
		{name: "granted permission", role: auth.RoleAdmin, perm: auth.PermissionRead},
		{name: "missing permission", role: auth.RoleAdmin, perm: auth.PermissionDelete, wantCode: auth.ReasonInsufficientPrivilege},
		{name: "role rank too low", role: auth.RoleSuperAdmin, perm: auth.PermissionRead, wantCode: auth.ReasonInsufficientPrivilege},
		{name: "role presence only", role: auth.RoleAdmin, perm: auth.PermissionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := policy.Authorize(ctx, testIdentity, tt.role, tt.perm)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, "admin-1", record.ID)
				return
			}
			assert.Equal(t, tt.wantCode, rejectionCode(t, err))
		})
	}
}

func TestAuthorizeSuperAdminCoversAdminRoutes(t *testing.T) {
	store := newMockAdminStore()
	store.add(auth.AdminRecord{
		ID:          "admin-1",
		UserID:      testIdentity.UserID,
		Role:        auth.RoleSuperAdmin,
		Permissions: auth.FullPermissions(),
	})
	policy := auth.NewPolicy(store)
	_, err := policy.Authorize(context.Background(), testIdentity, auth.RoleAdmin, auth.PermissionDelete)
	assert.NoError(t, err)
}

func TestAuthorizeIdempotent(t *testing.T) {
	store := newMockAdminStore()
	store.add(auth.AdminRecord{
		ID:          "admin-1",
		UserID:      testIdentity.UserID,
		Role:        auth.RoleAdmin,
		Permissions: auth.DefaultAdminPermissions(),
	})
	policy := auth.NewPolicy(store)
	ctx := context.Background()

	first, errFirst := policy.Authorize(ctx, testIdentity, auth.RoleAdmin, auth.PermissionWrite)
	second, errSecond := policy.Authorize(ctx, testIdentity, auth.RoleAdmin, auth.PermissionWrite)
	require.NoError(t, errFirst)
	require.NoError(t, errSecond)
	assert.Equal(t, first, second)

	_, errFirst = policy.Authorize(ctx, testIdentity, auth.RoleAdmin, auth.PermissionDelete)
	_, errSecond = policy.Authorize(ctx, testIdentity, auth.RoleAdmin, auth.PermissionDelete)
	assert.Equal(t, rejectionCode(t, errFirst), rejectionCode(t, errSecond))
}

func TestBootstrapFirstAdmin(t *testing.T) {
	store := newMockAdminStore()
	policy := auth.NewPolicy(store)

	record, err := policy.Bootstrap(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleSuperAdmin, record.Role)
	assert.Equal(t, testIdentity.UserID, record.UserID)
	assert.Equal(t, record.ID, record.CreatedBy, "bootstrap admin is self-created")
	assert.ElementsMatch(t, []string{"admin", "delete", "read", "write"}, record.Permissions.Strings())
}

func TestBootstrapReplaySameUserConflicts(t *testing.T) {
	store := newMockAdminStore()
	policy := auth.NewPolicy(store)
	ctx := context.Background()

	_, err := policy.Bootstrap(ctx, testIdentity)
	require.NoError(t, err)

	_, err = policy.Bootstrap(ctx, testIdentity)
	rej, ok := auth.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, auth.ReasonAlreadyAdmin, rej.Code)
	assert.Equal(t, 409, rej.Status)
}

func TestBootstrapClosedAfterFirstAdmin(t *testing.T) {
	store := newMockAdminStore()
	policy := auth.NewPolicy(store)
	ctx := context.Background()

	_, err := policy.Bootstrap(ctx, testIdentity)
	require.NoError(t, err)

	other := auth.Identity{UserID: "user-2", Email: "two@test.local"}
	_, err = policy.Bootstrap(ctx, other)
	assert.Equal(t, auth.ReasonNotAdmin, rejectionCode(t, err))

	// Still exactly one record, and it is the original super_admin.
	record, err := store.FindByUserID(ctx, testIdentity.UserID)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleSuperAdmin, record.Role)
	total, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestBootstrapLosesCreateRace(t *testing.T) {
	// Another process instance wins between our count and create; the
	// unique constraint surfaces as a duplicate and maps to a conflict.
	store := newMockAdminStore()
	ctx := context.Background()

	// Seed the record after Count would have returned zero by injecting
	// straight into the store before Create executes.
	storeWrapped := &racingAdminStore{mockAdminStore: store}
	racingPolicy := auth.NewPolicy(storeWrapped)

	_, err := racingPolicy.Bootstrap(ctx, testIdentity)
	assert.Equal(t, auth.ReasonAlreadyAdmin, rejectionCode(t, err))
}

// racingAdminStore reports zero admins but already holds a record at
// create time, simulating a concurrent bootstrap winner.
type racingAdminStore struct {
	*mockAdminStore
}

func (r *racingAdminStore) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (r *racingAdminStore) Create(ctx context.Context, record auth.AdminRecord) (auth.AdminRecord, error) {
	r.mockAdminStore.add(auth.AdminRecord{ID: "admin-other", UserID: record.UserID, Role: auth.RoleSuperAdmin})
	return r.mockAdminStore.Create(ctx, record)
}

func TestProvisionDefaults(t *testing.T) {
	store := newMockAdminStore()
	policy := auth.NewPolicy(store)
	actor := auth.AdminRecord{ID: "admin-1", UserID: "user-1", Role: auth.RoleSuperAdmin, Permissions: auth.FullPermissions()}

	record, err := policy.Provision(context.Background(), actor, "user-2", "", nil)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, record.Role)
	assert.Equal(t, "admin-1", record.CreatedBy)
	assert.ElementsMatch(t, []string{"read", "write"}, record.Permissions.Strings())
}

func TestProvisionDuplicateConflicts(t *testing.T) {
	store := newMockAdminStore()
	store.add(auth.AdminRecord{ID: "admin-2", UserID: "user-2", Role: auth.RoleAdmin})
	policy := auth.NewPolicy(store)
	actor := auth.AdminRecord{ID: "admin-1", UserID: "user-1", Role: auth.RoleSuperAdmin, Permissions: auth.FullPermissions()}

	_, err := policy.Provision(context.Background(), actor, "user-2", auth.RoleAdmin, nil)
	assert.Equal(t, auth.ReasonAlreadyAdmin, rejectionCode(t, err))
}

func TestParsePermissionsRejectsUnknownToken(t *testing.T) {
	_, err := auth.ParsePermissions([]string{"read", "sudo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sudo")

	set, err := auth.ParsePermissions([]string{"read", "write", "delete", "admin"})
	require.NoError(t, err)
	assert.True(t, set.Has(auth.PermissionAdmin))
}

func TestParseRoleRejectsUnknownRole(t *testing.T) {
	_, err := auth.ParseRole("owner")
	require.Error(t, err)

	role, err := auth.ParseRole("super_admin")
	require.NoError(t, err)
	assert.True(t, role.Covers(auth.RoleAdmin))
}
