package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"session_auth/internal/models"
)

// SessionSQL keeps session associations in the sessions table.
type SessionSQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewSessionSQL(db *sql.DB, dialect Dialect) *SessionSQL {
	return &SessionSQL{db: db, dialect: dialect}
}

var _ Sessions = (*SessionSQL)(nil)

const (
	insertSessionSQL = `INSERT INTO sessions (id, username, created_at) VALUES (?, ?, ?)`
	selectSessionSQL = `SELECT id, username, created_at FROM sessions WHERE id = ?`
	deleteSessionSQL = `DELETE FROM sessions WHERE id = ?`
)

func (r *SessionSQL) Create(ctx context.Context, s models.Session) error {
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	} else {
		createdAt = createdAt.UTC()
	}
	_, err := r.db.ExecContext(ctx, r.dialect.rebind(insertSessionSQL), s.ID, s.Username, createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert session: %w", ErrDuplicateSession)
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionSQL) Get(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(selectSessionSQL), id).
		Scan(&s.ID, &s.Username, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}

func (r *SessionSQL) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.rebind(deleteSessionSQL), id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
