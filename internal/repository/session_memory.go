package repository

import (
	"context"
	"sync"
	"time"

	"session_auth/internal/models"
)

// SessionMemory is a process-local session store. Sessions vanish on restart.
type SessionMemory struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewSessionMemory() *SessionMemory {
	return &SessionMemory{sessions: make(map[string]models.Session)}
}

var _ Sessions = (*SessionMemory)(nil)

func (m *SessionMemory) Create(_ context.Context, s models.Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; ok {
		return ErrDuplicateSession
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *SessionMemory) Get(_ context.Context, id string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *SessionMemory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}
