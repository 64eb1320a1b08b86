package mocks

import (
	"context"
	"time"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// MockEnrollmentRepository implements domain.EnrollmentRepository interface for testing
type MockEnrollmentRepository struct {
	CreateFunc            func(ctx context.Context, enrollment *domain.Enrollment) error
	ListByUserFunc        func(ctx context.Context, userID uint) ([]domain.Enrollment, error)
	StartingOnFunc        func(ctx context.Context, day time.Time) ([]domain.Enrollment, error)
	EndingOnFunc          func(ctx context.Context, day time.Time) ([]domain.Enrollment, error)
	MarkStartNotifiedFunc func(ctx context.Context, id uint, day time.Time) error
	MarkEndNotifiedFunc   func(ctx context.Context, id uint, day time.Time) error
}

// NewMockEnrollmentRepository creates a new MockEnrollmentRepository with default behaviors
func NewMockEnrollmentRepository() *MockEnrollmentRepository {
	return &MockEnrollmentRepository{}
}

func (m *MockEnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, enrollment)
	}
	return nil
}

func (m *MockEnrollmentRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Enrollment, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockEnrollmentRepository) StartingOn(ctx context.Context, day time.Time) ([]domain.Enrollment, error) {
	if m.StartingOnFunc != nil {
		return m.StartingOnFunc(ctx, day)
	}
	return nil, nil
}

func (m *MockEnrollmentRepository) EndingOn(ctx context.Context, day time.Time) ([]domain.Enrollment, error) {
	if m.EndingOnFunc != nil {
		return m.EndingOnFunc(ctx, day)
	}
	return nil, nil
}

func (m *MockEnrollmentRepository) MarkStartNotified(ctx context.Context, id uint, day time.Time) error {
	if m.MarkStartNotifiedFunc != nil {
		return m.MarkStartNotifiedFunc(ctx, id, day)
	}
	return nil
}

func (m *MockEnrollmentRepository) MarkEndNotified(ctx context.Context, id uint, day time.Time) error {
	if m.MarkEndNotifiedFunc != nil {
		return m.MarkEndNotifiedFunc(ctx, id, day)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.EnrollmentRepository = (*MockEnrollmentRepository)(nil)
