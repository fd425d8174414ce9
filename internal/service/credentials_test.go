package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"session_auth/internal/models"
	"session_auth/internal/repository"
)

func TestCredentialService_Register_HashesPasswordAndCallsRepo(t *testing.T) {
	mock := &mockUsers{
		CreateFn: func(username, hash string) (int, error) { return 42, nil },
	}
	hasher := NewPBKDF2Hasher(testIterations, 0)
	svc := NewCredentialService(mock, hasher)

	id, err := svc.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	require.Len(t, mock.createCalls, 1)
	call := mock.createCalls[0]
	assert.Equal(t, "alice", call.username)
	assert.NotEqual(t, "secret1", call.hash, "password must be hashed")
	assert.True(t, strings.HasPrefix(call.hash, "pbkdf2:sha256:1000$"))

	ok, err := hasher.Verify("secret1", call.hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCredentialService_Register_Errors(t *testing.T) {
	dbErr := errors.New("database is locked")

	tests := []struct {
		name       string
		username   string
		password   string
		mock       *mockUsers
		wantErr    error
		wantCreate int
	}{
		{
			name:     "existing user",
			username: "alice",
			password: "secret1",
			mock: &mockUsers{
				GetByUsernameFn: func(string) (*models.User, error) {
					return &models.User{ID: 1, Username: "alice", PasswordHash: "h"}, nil
				},
			},
			wantErr: ErrDuplicateUsername,
		},
		{
			name:     "lost race on insert",
			username: "alice",
			password: "secret1",
			mock: &mockUsers{
				CreateFn: func(string, string) (int, error) {
					return 0, repository.ErrDuplicateUsername
				},
			},
			wantErr:    ErrDuplicateUsername,
			wantCreate: 1,
		},
		{
			name:     "lookup failure",
			username: "alice",
			password: "secret1",
			mock: &mockUsers{
				GetByUsernameFn: func(string) (*models.User, error) { return nil, dbErr },
			},
			wantErr: ErrPersistence,
		},
		{
			name:     "insert failure",
			username: "alice",
			password: "secret1",
			mock: &mockUsers{
				CreateFn: func(string, string) (int, error) { return 0, dbErr },
			},
			wantErr:    ErrPersistence,
			wantCreate: 1,
		},
		{
			name:     "empty username",
			username: "",
			password: "secret1",
			mock:     &mockUsers{},
			wantErr:  ErrInvalidUsername,
		},
		{
			name:     "username too long",
			username: strings.Repeat("a", maxUsernameLength+1),
			password: "secret1",
			mock:     &mockUsers{},
			wantErr:  ErrInvalidUsername,
		},
		{
			name:     "empty password",
			username: "alice",
			password: "",
			mock:     &mockUsers{},
			wantErr:  ErrEmptyPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCredentialService(tt.mock, NewPBKDF2Hasher(testIterations, 0))

			id, err := svc.Register(context.Background(), tt.username, tt.password)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, id)
			assert.Len(t, tt.mock.createCalls, tt.wantCreate)
		})
	}
}

func TestCredentialService_Register_PersistenceKeepsCause(t *testing.T) {
	dbErr := errors.New("database is locked")
	mock := &mockUsers{
		GetByUsernameFn: func(string) (*models.User, error) { return nil, dbErr },
	}
	_, err := NewCredentialService(mock, NewPBKDF2Hasher(testIterations, 0)).
		Register(context.Background(), "alice", "secret1")

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, dbErr)
}

func TestCredentialService_DuplicateLeavesOriginalHash(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	svc := NewCredentialService(users, NewPBKDF2Hasher(testIterations, 0))

	_, err := svc.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	before, err := svc.FindByUsername(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other")
	require.ErrorIs(t, err, ErrDuplicateUsername)

	after, err := svc.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
}

func TestCredentialService_ConcurrentRegisterSameName(t *testing.T) {
	ctx := context.Background()
	svc := NewCredentialService(newMemUsers(), NewPBKDF2Hasher(testIterations, 0))

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, "carol", "pw")
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrDuplicateUsername)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestCredentialService_FindByUsername(t *testing.T) {
	ctx := context.Background()

	svc := NewCredentialService(&mockUsers{}, NewPBKDF2Hasher(testIterations, 0))
	u, err := svc.FindByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, u)

	failing := &mockUsers{
		GetByUsernameFn: func(string) (*models.User, error) { return nil, errors.New("boom") },
	}
	_, err = NewCredentialService(failing, NewPBKDF2Hasher(testIterations, 0)).FindByUsername(ctx, "alice")
	assert.ErrorIs(t, err, ErrPersistence)
}
