package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// AccountServiceImpl implements domain.AccountService
type AccountServiceImpl struct {
	userRepo    domain.UserRepository
	gateway     domain.Gateway
	adminChatID int64
	log         *logrus.Entry
}

// NewAccountService creates a new account service. adminChatID receives
// best-effort copies of new-registration events; zero disables them.
func NewAccountService(userRepo domain.UserRepository, gateway domain.Gateway, adminChatID int64, log *logrus.Logger) domain.AccountService {
	return &AccountServiceImpl{
		userRepo:    userRepo,
		gateway:     gateway,
		adminChatID: adminChatID,
		log:         log.WithField("component", "account"),
	}
}

// defaultLanguage is used when the registering client reported no language.
const defaultLanguage = "ru"

// Register implements domain.AccountService. The created account is active
// and bound to the registering chat. A duplicate phone surfaces as
// domain.ErrPhoneTaken with nothing persisted.
func (s *AccountServiceImpl) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	chatID := input.ChatID
	lang := input.Language
	if lang == "" {
		lang = defaultLanguage
	}
	user := &domain.User{
		ChatID:         &chatID,
		Name:           input.Name,
		Age:            input.Age,
		Phone:          input.Phone,
		PhotoFileID:    input.PhotoFileID,
		DocumentFileID: input.DocumentFileID,
		Active:         true,
		Language:       lang,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.notifyAdmin(ctx, user)
	return user, nil
}

// notifyAdmin is a non-critical side channel: any failure is logged and never
// surfaced to the registering user.
func (s *AccountServiceImpl) notifyAdmin(ctx context.Context, user *domain.User) {
	if s.adminChatID == 0 {
		return
	}
	text := fmt.Sprintf("👤 New user: %s, phone: %s, chat ID: %d", user.Name, user.Phone, *user.ChatID)
	if err := s.gateway.Send(ctx, s.adminChatID, text, nil); err != nil {
		s.log.WithError(err).Warn("failed to notify admin about registration")
		return
	}
	if user.PhotoFileID != "" {
		if err := s.gateway.SendPhoto(ctx, s.adminChatID, user.PhotoFileID, "📷 User photo"); err != nil {
			s.log.WithError(err).Warn("failed to forward user photo to admin")
		}
	}
	if user.DocumentFileID != "" {
		if err := s.gateway.SendDocument(ctx, s.adminChatID, user.DocumentFileID, "📄 User document"); err != nil {
			s.log.WithError(err).Warn("failed to forward user document to admin")
		}
	}
}

// Login implements domain.AccountService. Binding a phone already bound to a
// different active chat fails with domain.ErrAccountAlreadyBound; logging in
// again from the same chat is an idempotent success.
func (s *AccountServiceImpl) Login(ctx context.Context, chatID int64, phone string) (*domain.User, error) {
	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	if user.ChatID != nil && user.Active {
		if *user.ChatID == chatID {
			return user, nil
		}
		return nil, domain.ErrAccountAlreadyBound
	}

	user.ChatID = &chatID
	user.Active = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to bind account: %w", err)
	}
	return user, nil
}

// Logout implements domain.AccountService. The chat identity is unbound so
// the account can later be re-bound by phone.
func (s *AccountServiceImpl) Logout(ctx context.Context, chatID int64) (*domain.User, error) {
	user, err := s.userRepo.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	user.ChatID = nil
	user.Active = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to unbind account: %w", err)
	}
	return user, nil
}

// ByChat implements domain.AccountService
func (s *AccountServiceImpl) ByChat(ctx context.Context, chatID int64) (*domain.User, error) {
	return s.userRepo.FindByChatID(ctx, chatID)
}
