package mocks

import (
	"context"
	"sync"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// MockSessionStore implements domain.SessionStore interface for testing.
// Without configured funcs it behaves like a working in-memory store.
type MockSessionStore struct {
	GetFunc    func(ctx context.Context, chatID int64) (*domain.Session, error)
	PutFunc    func(ctx context.Context, session *domain.Session) error
	DeleteFunc func(ctx context.Context, chatID int64) error

	mu       sync.Mutex
	sessions map[int64]*domain.Session
}

// NewMockSessionStore creates a new MockSessionStore with default behaviors
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[int64]*domain.Session)}
}

func (m *MockSessionStore) Get(ctx context.Context, chatID int64) (*domain.Session, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, chatID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[chatID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionStore) Put(ctx context.Context, session *domain.Session) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ChatID] = session
	return nil
}

func (m *MockSessionStore) Delete(ctx context.Context, chatID int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, chatID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
	return nil
}

// Compile-time interface compliance verification
var _ domain.SessionStore = (*MockSessionStore)(nil)
