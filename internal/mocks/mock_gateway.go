package mocks

import (
	"context"
	"sync"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// SentMessage records one outbound delivery made through the mock gateway.
type SentMessage struct {
	ChatID  int64
	Text    string
	Menu    *domain.Menu
	FileID  string
	Kind    string // "text", "photo" or "document"
	Caption string
}

// MockGateway implements domain.Gateway interface for testing. Every
// delivery is recorded regardless of the configured behavior, so tests can
// assert on the full outbound conversation.
type MockGateway struct {
	SendFunc         func(ctx context.Context, chatID int64, text string, menu *domain.Menu) error
	SendPhotoFunc    func(ctx context.Context, chatID int64, fileID, caption string) error
	SendDocumentFunc func(ctx context.Context, chatID int64, fileID, caption string) error

	mu   sync.Mutex
	sent []SentMessage
}

// NewMockGateway creates a new MockGateway with default behaviors
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Send(ctx context.Context, chatID int64, text string, menu *domain.Menu) error {
	m.record(SentMessage{ChatID: chatID, Text: text, Menu: menu, Kind: "text"})
	if m.SendFunc != nil {
		return m.SendFunc(ctx, chatID, text, menu)
	}
	return nil
}

func (m *MockGateway) SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error {
	m.record(SentMessage{ChatID: chatID, FileID: fileID, Caption: caption, Kind: "photo"})
	if m.SendPhotoFunc != nil {
		return m.SendPhotoFunc(ctx, chatID, fileID, caption)
	}
	return nil
}

func (m *MockGateway) SendDocument(ctx context.Context, chatID int64, fileID, caption string) error {
	m.record(SentMessage{ChatID: chatID, FileID: fileID, Caption: caption, Kind: "document"})
	if m.SendDocumentFunc != nil {
		return m.SendDocumentFunc(ctx, chatID, fileID, caption)
	}
	return nil
}

func (m *MockGateway) record(msg SentMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
}

// Sent returns a copy of everything delivered so far.
func (m *MockGateway) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// LastText returns the text of the most recent "text" delivery, or "".
func (m *MockGateway) LastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Kind == "text" {
			return m.sent[i].Text
		}
	}
	return ""
}

// Reset clears the recorded deliveries.
func (m *MockGateway) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}

// Compile-time interface compliance verification
var _ domain.Gateway = (*MockGateway)(nil)
