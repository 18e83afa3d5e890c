package session

import (
	"context"
	"sync"

	"github.com/drinkcal-bot/server/internal/bot/model"
)

// MemorySessionRepository is a process-local SessionRepository. It backs
// deployments without Redis and the flow tests; it carries no idle TTL.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]model.Session)}
}

func (m *MemorySessionRepository) Load(_ context.Context, userID string) (model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID]
	if !ok {
		return model.IdleSession(), nil
	}
	return s, nil
}

func (m *MemorySessionRepository) Save(_ context.Context, userID string, s model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[userID] = s
	return nil
}

func (m *MemorySessionRepository) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}

var _ model.SessionRepository = (*MemorySessionRepository)(nil)
