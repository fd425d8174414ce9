package service

import (
	"context"
	"sync"

	"session_auth/internal/models"
	"session_auth/internal/repository"
)

// mockUsers is a lightweight in-test mock for repository.Users.
type mockUsers struct {
	CreateFn        func(username, hash string) (int, error)
	GetByUsernameFn func(username string) (*models.User, error)

	createCalls []struct {
		username string
		hash     string
	}
	getCalls []string
}

func (m *mockUsers) Create(_ context.Context, username, hash string) (int, error) {
	m.createCalls = append(m.createCalls, struct {
		username string
		hash     string
	}{username: username, hash: hash})
	return m.CreateFn(username, hash)
}

func (m *mockUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.getCalls = append(m.getCalls, username)
	if m.GetByUsernameFn == nil {
		return nil, nil
	}
	return m.GetByUsernameFn(username)
}

// memUsers behaves like the SQL store, including the unique constraint.
type memUsers struct {
	mu     sync.Mutex
	nextID int
	byName map[string]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byName: map[string]models.User{}}
}

func (m *memUsers) Create(_ context.Context, username, hash string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[username]; ok {
		return 0, repository.ErrDuplicateUsername
	}
	m.nextID++
	m.byName[username] = models.User{ID: m.nextID, Username: username, PasswordHash: hash}
	return m.nextID, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byName[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// mockSessions records calls and delegates to optional funcs.
type mockSessions struct {
	CreateFn func(s models.Session) error
	GetFn    func(id string) (*models.Session, error)
	DeleteFn func(id string) error

	created []models.Session
	deleted []string
}

func (m *mockSessions) Create(_ context.Context, s models.Session) error {
	m.created = append(m.created, s)
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(s)
}

func (m *mockSessions) Get(_ context.Context, id string) (*models.Session, error) {
	if m.GetFn == nil {
		return nil, nil
	}
	return m.GetFn(id)
}

func (m *mockSessions) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(id)
}
