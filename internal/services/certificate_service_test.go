package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/mocks"
)

func TestCertificateIssue(t *testing.T) {
	t.Run("bound owner is notified via chat", func(t *testing.T) {
		chatID := int64(100)
		users := mocks.NewMockUserRepository()
		users.FindByIDFunc = func(_ context.Context, id uint) (*domain.User, error) {
			return &domain.User{ID: id, ChatID: &chatID, Name: "Aliya", Active: true}, nil
		}
		certs := mocks.NewMockCertificateRepository()
		var created *domain.Certificate
		certs.CreateFunc = func(_ context.Context, cert *domain.Certificate) error {
			cert.ID = 1
			created = cert
			return nil
		}
		gateway := mocks.NewMockGateway()
		sms := mocks.NewMockNotificationService()

		svc := NewCertificateService(certs, users, gateway, sms, testLogger())
		cert, user, err := svc.Issue(context.Background(), 3, "Go Basics", "file-1")
		require.NoError(t, err)

		assert.Equal(t, uint(1), cert.ID)
		assert.Equal(t, "Aliya", user.Name)
		require.NotNil(t, created)
		assert.Equal(t, uint(3), created.UserID)

		sent := gateway.Sent()
		require.Len(t, sent, 2)
		assert.Equal(t, chatID, sent[0].ChatID)
		assert.Contains(t, sent[0].Text, "Go Basics")
		assert.Equal(t, "document", sent[1].Kind)
		assert.Equal(t, "file-1", sent[1].FileID)
	})

	t.Run("unbound owner falls back to SMS", func(t *testing.T) {
		users := mocks.NewMockUserRepository()
		users.FindByIDFunc = func(_ context.Context, id uint) (*domain.User, error) {
			return &domain.User{ID: id, Name: "Aliya", Phone: "+77001234567"}, nil
		}
		gateway := mocks.NewMockGateway()
		sms := mocks.NewMockNotificationService()
		var smsTo, smsText string
		sms.SendSMSFunc = func(to, message string) error {
			smsTo, smsText = to, message
			return nil
		}

		svc := NewCertificateService(mocks.NewMockCertificateRepository(), users, gateway, sms, testLogger())
		_, _, err := svc.Issue(context.Background(), 3, "Go Basics", "")
		require.NoError(t, err)

		assert.Empty(t, gateway.Sent())
		assert.Equal(t, "+77001234567", smsTo)
		assert.Contains(t, smsText, "Go Basics")
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := NewCertificateService(
			mocks.NewMockCertificateRepository(),
			mocks.NewMockUserRepository(),
			mocks.NewMockGateway(),
			mocks.NewMockNotificationService(),
			testLogger(),
		)
		_, _, err := svc.Issue(context.Background(), 3, "Go Basics", "")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestCertificateForChat(t *testing.T) {
	users := mocks.NewMockUserRepository()
	chatID := int64(100)
	users.FindByChatIDFunc = func(_ context.Context, _ int64) (*domain.User, error) {
		return &domain.User{ID: 3, ChatID: &chatID, Active: true}, nil
	}
	certs := mocks.NewMockCertificateRepository()
	certs.ListByUserFunc = func(_ context.Context, userID uint) ([]domain.Certificate, error) {
		assert.Equal(t, uint(3), userID)
		return []domain.Certificate{{ID: 1, UserID: 3, Title: "Go Basics"}}, nil
	}

	svc := NewCertificateService(certs, users, mocks.NewMockGateway(), mocks.NewMockNotificationService(), testLogger())
	got, err := svc.ForChat(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Go Basics", got[0].Title)
}
