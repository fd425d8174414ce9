package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"session_auth/internal/models"
	"session_auth/internal/repository"
)

// dummyPassword is hashed once and verified against when the username is
// unknown, so both failure paths cost one hash computation.
const dummyPassword = "session-auth-timing-equaliser"

// AuthService handles login, logout and session lookups.
type AuthService struct {
	users    repository.Users
	sessions repository.Sessions
	hasher   PasswordHasher

	newToken func() string
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repository.Users, sessions repository.Sessions, hasher PasswordHasher) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		newToken: uuid.NewString,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Authenticate checks credentials and opens a new session for the user.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", persistence(err)
	}
	if u == nil {
		s.equaliseTiming(password)
		return "", ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	token := s.newToken()
	if err := s.sessions.Create(ctx, models.Session{
		ID:        token,
		Username:  u.Username,
		CreatedAt: s.now(),
	}); err != nil {
		return "", persistence(err)
	}
	return token, nil
}

// Logout drops the association for token. Anonymous or unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return persistence(err)
	}
	return nil
}

// CurrentUser reports the username bound to token, if any.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return "", false, persistence(err)
	}
	if sess == nil {
		return "", false, nil
	}
	return sess.Username, true, nil
}

func (s *AuthService) equaliseTiming(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(dummyPassword)
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}
