package mocks

import (
	"context"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// MockCourseRepository implements domain.CourseRepository interface for testing
type MockCourseRepository struct {
	CreateFunc      func(ctx context.Context, course *domain.Course) error
	FindByIDFunc    func(ctx context.Context, id uint) (*domain.Course, error)
	FindByTitleFunc func(ctx context.Context, title string) (*domain.Course, error)
	ListFunc        func(ctx context.Context) ([]domain.Course, error)
	UpdateFunc      func(ctx context.Context, course *domain.Course) error
	DeleteFunc      func(ctx context.Context, id uint) error
}

// NewMockCourseRepository creates a new MockCourseRepository with default behaviors
func NewMockCourseRepository() *MockCourseRepository {
	return &MockCourseRepository{}
}

func (m *MockCourseRepository) Create(ctx context.Context, course *domain.Course) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, course)
	}
	return nil
}

func (m *MockCourseRepository) FindByID(ctx context.Context, id uint) (*domain.Course, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrCourseNotFound
}

func (m *MockCourseRepository) FindByTitle(ctx context.Context, title string) (*domain.Course, error) {
	if m.FindByTitleFunc != nil {
		return m.FindByTitleFunc(ctx, title)
	}
	return nil, domain.ErrCourseNotFound
}

func (m *MockCourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockCourseRepository) Update(ctx context.Context, course *domain.Course) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, course)
	}
	return nil
}

func (m *MockCourseRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.CourseRepository = (*MockCourseRepository)(nil)
