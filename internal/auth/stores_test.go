package auth_test

import (
	"context"
	"sync"

	"github.com/anitrack/anitrack/internal/auth"
	"github.com/anitrack/anitrack/internal/shared"
)

type mockUserStore struct {
	mu        sync.Mutex
	users     map[string]auth.UserCredentials // keyed by user ID
	byEmail   map[string]string
	findErr   error
	createErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		users:   make(map[string]auth.UserCredentials),
		byEmail: make(map[string]string),
	}
}

func (m *mockUserStore) add(creds auth.UserCredentials) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[creds.UserID] = creds
	m.byEmail[creds.Email] = creds.UserID
}

func (m *mockUserStore) FindBySubject(ctx context.Context, subjectID string) (auth.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return auth.Identity{}, m.findErr
	}
	creds, ok := m.users[subjectID]
	if !ok {
		return auth.Identity{}, shared.ErrNotFound
	}
	return creds.Identity, nil
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (auth.UserCredentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return auth.UserCredentials{}, m.findErr
	}
	id, ok := m.byEmail[email]
	if !ok {
		return auth.UserCredentials{}, shared.ErrNotFound
	}
	return m.users[id], nil
}

func (m *mockUserStore) Create(ctx context.Context, params auth.CreateUserParams) (auth.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return auth.Identity{}, m.createErr
	}
	if _, exists := m.byEmail[params.Email]; exists {
		return auth.Identity{}, shared.ErrDuplicate
	}
	creds := auth.UserCredentials{
		Identity: auth.Identity{
			UserID:      "user-" + params.Email,
			Email:       params.Email,
			DisplayName: params.DisplayName,
		},
		PasswordHash: params.PasswordHash,
	}
	m.users[creds.UserID] = creds
	m.byEmail[params.Email] = creds.UserID
	return creds.Identity, nil
}

type mockAdminStore struct {
	mu        sync.Mutex
	records   map[string]auth.AdminRecord // keyed by user ID
	findErr   error
	countErr  error
	createErr error
}

func newMockAdminStore() *mockAdminStore {
	return &mockAdminStore{records: make(map[string]auth.AdminRecord)}
}

func (m *mockAdminStore) add(record auth.AdminRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.UserID] = record
}

func (m *mockAdminStore) FindByUserID(ctx context.Context, userID string) (auth.AdminRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return auth.AdminRecord{}, m.findErr
	}
	record, ok := m.records[userID]
	if !ok {
		return auth.AdminRecord{}, shared.ErrNotFound
	}
	return record, nil
}

func (m *mockAdminStore) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.records)), nil
}

func (m *mockAdminStore) Create(ctx context.Context, record auth.AdminRecord) (auth.AdminRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return auth.AdminRecord{}, m.createErr
	}
	// Mirrors the unique constraint on user_id.
	if _, exists := m.records[record.UserID]; exists {
		return auth.AdminRecord{}, shared.ErrDuplicate
	}
	m.records[record.UserID] = record
	return record, nil
}

type mockAuditStore struct {
	mu        sync.Mutex
	entries   []auth.AuditEntry
	insertErr error
	inserted  chan struct{}
}

func newMockAuditStore() *mockAuditStore {
	return &mockAuditStore{inserted: make(chan struct{}, 16)}
}

func (m *mockAuditStore) Insert(ctx context.Context, entry auth.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case m.inserted <- struct{}{}:
	default:
	}
	if m.insertErr != nil {
		return m.insertErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditStore) all() []auth.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]auth.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}
