package mocks

import "github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"

// MockAccessService implements domain.AccessService interface for testing
type MockAccessService struct {
	IsAdminFunc func(chatID int64) bool
}

// NewMockAccessService creates a new MockAccessService with default behaviors
func NewMockAccessService() *MockAccessService {
	return &MockAccessService{}
}

// AdminAccessService returns a mock that grants admin to the given chats.
func AdminAccessService(chatIDs ...int64) *MockAccessService {
	admins := make(map[int64]bool, len(chatIDs))
	for _, id := range chatIDs {
		admins[id] = true
	}
	return &MockAccessService{IsAdminFunc: func(chatID int64) bool { return admins[chatID] }}
}

func (m *MockAccessService) IsAdmin(chatID int64) bool {
	if m.IsAdminFunc != nil {
		return m.IsAdminFunc(chatID)
	}
	// Default behavior: nobody is an admin
	return false
}

// Compile-time interface compliance verification
var _ domain.AccessService = (*MockAccessService)(nil)
