package service

import (
	"context"
	"errors"

	"session_auth/internal/models"
	"session_auth/internal/repository"
)

// CredentialService owns registration and lookup of user records.
type CredentialService struct {
	users  repository.Users
	hasher PasswordHasher
}

func NewCredentialService(users repository.Users, hasher PasswordHasher) *CredentialService {
	return &CredentialService{users: users, hasher: hasher}
}

// Register hashes password and stores a new user. An existing username is
// never overwritten; ErrDuplicateUsername is returned instead.
func (s *CredentialService) Register(ctx context.Context, username, password string) (int, error) {
	if username == "" || len(username) > maxUsernameLength {
		return 0, ErrInvalidUsername
	}
	if password == "" {
		return 0, ErrEmptyPassword
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, persistence(err)
	}
	if existing != nil {
		return 0, ErrDuplicateUsername
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}

	// A concurrent registration may win between the lookup and here; the
	// store's unique constraint reports it.
	id, err := s.users.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return 0, ErrDuplicateUsername
		}
		return 0, persistence(err)
	}
	return id, nil
}

// FindByUsername returns (nil, nil) when the user does not exist.
func (s *CredentialService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, persistence(err)
	}
	return u, nil
}
