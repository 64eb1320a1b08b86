package repositories

import (
	"context"
	"sync"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// MemorySessionStore implements domain.SessionStore as a process-lifetime
// map. Sessions do not survive a restart; that is the accepted default.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.Session
}

// NewMemorySessionStore creates an in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[int64]*domain.Session)}
}

// Get implements domain.SessionStore
func (s *MemorySessionStore) Get(_ context.Context, chatID int64) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[chatID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *session
	cp.Collected = make(map[string]string, len(session.Collected))
	for k, v := range session.Collected {
		cp.Collected[k] = v
	}
	return &cp, nil
}

// Put implements domain.SessionStore
func (s *MemorySessionStore) Put(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	cp.Collected = make(map[string]string, len(session.Collected))
	for k, v := range session.Collected {
		cp.Collected[k] = v
	}
	s.sessions[session.ChatID] = &cp
	return nil
}

// Delete implements domain.SessionStore
func (s *MemorySessionStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
	return nil
}

var _ domain.SessionStore = (*MemorySessionStore)(nil)
