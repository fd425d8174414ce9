package repository

import (
	"context"
	"database/sql"

	"session_auth/internal/models"
)

// Users is the persistence capability behind the credential store.
type Users interface {
	// Create inserts a user and returns its ID. A taken username yields ErrDuplicateUsername.
	Create(ctx context.Context, username, passwordHash string) (int, error)
	// GetByUsername returns (nil, nil) when no such user exists.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Sessions stores server-side session associations.
type Sessions interface {
	Create(ctx context.Context, s models.Session) error
	// Get returns (nil, nil) when the session does not exist.
	Get(ctx context.Context, id string) (*models.Session, error)
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id string) error
}

type Repository struct {
	Users    Users
	Sessions Sessions
}

// NewRepository wires SQL-backed repositories for the given dialect.
// Callers may swap Sessions for a memory or redis backed store.
func NewRepository(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{
		Users:    NewUserRepository(db, dialect),
		Sessions: NewSessionSQL(db, dialect),
	}
}
