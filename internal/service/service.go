package service

import (
	"context"

	"session_auth/internal/models"
	"session_auth/internal/repository"
)

// Credentials is the credential store: unique username -> password hash.
type Credentials interface {
	Register(ctx context.Context, username, password string) (int, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Authenticator verifies credentials and manages the per-client
// Anonymous/Authenticated transition through opaque session tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (string, bool, error)
}

// Service aggregates the auth sub-services for the HTTP layer.
type Service struct {
	Credentials
	Authenticator
}

func NewService(repos *repository.Repository, hasher PasswordHasher) *Service {
	return &Service{
		Credentials:   NewCredentialService(repos.Users, hasher),
		Authenticator: NewAuthService(repos.Users, repos.Sessions, hasher),
	}
}
