package mocks

import (
	"context"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// MockCertificateRepository implements domain.CertificateRepository interface for testing
type MockCertificateRepository struct {
	CreateFunc     func(ctx context.Context, cert *domain.Certificate) error
	ListByUserFunc func(ctx context.Context, userID uint) ([]domain.Certificate, error)
	ListFunc       func(ctx context.Context) ([]domain.Certificate, error)
}

// NewMockCertificateRepository creates a new MockCertificateRepository with default behaviors
func NewMockCertificateRepository() *MockCertificateRepository {
	return &MockCertificateRepository{}
}

func (m *MockCertificateRepository) Create(ctx context.Context, cert *domain.Certificate) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, cert)
	}
	return nil
}

func (m *MockCertificateRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Certificate, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockCertificateRepository) List(ctx context.Context) ([]domain.Certificate, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// Compile-time interface compliance verification
var _ domain.CertificateRepository = (*MockCertificateRepository)(nil)
