package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// CertificateServiceImpl implements domain.CertificateService
type CertificateServiceImpl struct {
	certRepo        domain.CertificateRepository
	userRepo        domain.UserRepository
	gateway         domain.Gateway
	notificationSvc domain.NotificationService
	log             *logrus.Entry
}

// NewCertificateService creates a new certificate service
func NewCertificateService(
	certRepo domain.CertificateRepository,
	userRepo domain.UserRepository,
	gateway domain.Gateway,
	notificationSvc domain.NotificationService,
	log *logrus.Logger,
) domain.CertificateService {
	return &CertificateServiceImpl{
		certRepo:        certRepo,
		userRepo:        userRepo,
		gateway:         gateway,
		notificationSvc: notificationSvc,
		log:             log.WithField("component", "certificates"),
	}
}

// Issue implements domain.CertificateService. The owner is notified
// best-effort: through the chat when an identity is bound, otherwise by SMS.
func (s *CertificateServiceImpl) Issue(ctx context.Context, userID uint, title, fileID string) (*domain.Certificate, *domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	cert := &domain.Certificate{
		UserID: user.ID,
		Title:  title,
		FileID: fileID,
	}
	if err := s.certRepo.Create(ctx, cert); err != nil {
		return nil, nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	s.notifyOwner(ctx, user, cert)
	return cert, user, nil
}

func (s *CertificateServiceImpl) notifyOwner(ctx context.Context, user *domain.User, cert *domain.Certificate) {
	if user.ChatID != nil {
		text := fmt.Sprintf("🏅 Congratulations! You have been issued a certificate:\n\n%s", cert.Title)
		if err := s.gateway.Send(ctx, *user.ChatID, text, nil); err != nil {
			s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to notify certificate owner")
			return
		}
		if cert.FileID != "" {
			if err := s.gateway.SendDocument(ctx, *user.ChatID, cert.FileID, "📄 Your certificate"); err != nil {
				s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to send certificate file")
			}
		}
		return
	}

	if user.Phone != "" {
		msg := fmt.Sprintf("You have been issued a certificate: %s", cert.Title)
		if err := s.notificationSvc.SendSMS(user.Phone, msg); err != nil {
			s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to SMS certificate owner")
		}
	}
}

// ForChat implements domain.CertificateService
func (s *CertificateServiceImpl) ForChat(ctx context.Context, chatID int64) ([]domain.Certificate, error) {
	user, err := s.userRepo.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return s.certRepo.ListByUser(ctx, user.ID)
}

// All implements domain.CertificateService
func (s *CertificateServiceImpl) All(ctx context.Context) ([]domain.Certificate, error) {
	return s.certRepo.List(ctx)
}
