package flows

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/engine"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/mocks"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/services"
)

// bot wires the real engine and services over mock repositories, so flow
// tests drive the same path a webhook update would take.
type bot struct {
	engine       *engine.Engine
	gateway      *mocks.MockGateway
	sessions     *mocks.MockSessionStore
	users        *mocks.MockUserRepository
	courses      *mocks.MockCourseRepository
	enrollments  *mocks.MockEnrollmentRepository
	certificates *mocks.MockCertificateRepository
	access       *mocks.MockAccessService
}

func newTestBot(t *testing.T, adminIDs ...int64) *bot {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	b := &bot{
		gateway:      mocks.NewMockGateway(),
		sessions:     mocks.NewMockSessionStore(),
		users:        mocks.NewMockUserRepository(),
		courses:      mocks.NewMockCourseRepository(),
		enrollments:  mocks.NewMockEnrollmentRepository(),
		certificates: mocks.NewMockCertificateRepository(),
		access:       mocks.AdminAccessService(adminIDs...),
	}

	accounts := services.NewAccountService(b.users, b.gateway, 0, log)
	catalog := services.NewCatalogService(b.courses, b.users, b.enrollments)
	certs := services.NewCertificateService(b.certificates, b.users, b.gateway, mocks.NewMockNotificationService(), log)

	b.engine = engine.New(b.sessions, b.gateway, log)
	Install(b.engine, Deps{
		Accounts:     accounts,
		Catalog:      catalog,
		Certificates: certs,
		Users:        b.users,
		Access:       b.access,
		Gateway:      b.gateway,
		Log:          log,
	})
	return b
}

func (b *bot) text(t *testing.T, chatID int64, text string) {
	t.Helper()
	require.NoError(t, b.engine.Handle(context.Background(), chatID, domain.Event{Text: text}))
}

func (b *bot) callback(t *testing.T, chatID int64, data string) {
	t.Helper()
	require.NoError(t, b.engine.Handle(context.Background(), chatID, domain.Event{Callback: data}))
}

func (b *bot) attach(t *testing.T, chatID int64, kind domain.AttachmentKind, fileID, mime string) {
	t.Helper()
	ev := domain.Event{Attachment: &domain.Attachment{Kind: kind, FileID: fileID, MimeType: mime}}
	require.NoError(t, b.engine.Handle(context.Background(), chatID, ev))
}

func (b *bot) hasSession(chatID int64) bool {
	_, err := b.sessions.Get(context.Background(), chatID)
	return err == nil
}

func boundUser(id uint, chatID int64, name, phone string) *domain.User {
	return &domain.User{ID: id, ChatID: &chatID, Name: name, Phone: phone, Active: true}
}

func TestStartCommand(t *testing.T) {
	b := newTestBot(t)
	b.text(t, 1, "/start")

	sent := b.gateway.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "Welcome to the education center")
	require.NotNil(t, sent[0].Menu)
	assert.False(t, sent[0].Menu.Inline(), "main menu is a reply keyboard")
}

func TestMainMenuByRole(t *testing.T) {
	labels := func(menu *domain.Menu) []string {
		var out []string
		for _, row := range menu.Rows {
			for _, btn := range row {
				out = append(out, btn.Label)
			}
		}
		return out
	}

	admin := newTestBot(t, 500)
	admin.text(t, 500, "/start")
	adminLabels := labels(admin.gateway.Sent()[0].Menu)
	assert.Contains(t, adminLabels, "Manage courses and users")
	assert.NotContains(t, adminLabels, "My courses")

	user := newTestBot(t)
	user.text(t, 1, "/start")
	userLabels := labels(user.gateway.Sent()[0].Menu)
	assert.Contains(t, userLabels, "My courses")
	assert.NotContains(t, userLabels, "Manage courses and users")
}

func TestLogoutCommand(t *testing.T) {
	t.Run("signed in", func(t *testing.T) {
		b := newTestBot(t)
		var updated *domain.User
		b.users.FindByChatIDFunc = func(_ context.Context, chatID int64) (*domain.User, error) {
			return boundUser(3, chatID, "Aliya", "+77001234567"), nil
		}
		b.users.UpdateFunc = func(_ context.Context, user *domain.User) error {
			updated = user
			return nil
		}

		b.text(t, 42, "/logout")
		assert.Contains(t, b.gateway.LastText(), "signed out")
		require.NotNil(t, updated)
		assert.Nil(t, updated.ChatID)
		assert.False(t, updated.Active)
	})

	t.Run("not signed in", func(t *testing.T) {
		b := newTestBot(t)
		b.text(t, 42, "/logout")
		assert.Contains(t, b.gateway.LastText(), "not signed in")
	})
}

func TestAdminCommandRequiresAccess(t *testing.T) {
	b := newTestBot(t, 500)

	b.text(t, 1, "/admin")
	assert.Equal(t, msgNoAccess, b.gateway.LastText())

	b.text(t, 500, "/admin")
	assert.Contains(t, b.gateway.LastText(), "Administration")

	sent := b.gateway.Sent()
	menu := sent[len(sent)-1].Menu
	require.NotNil(t, menu)
	assert.True(t, menu.Inline())
}

func TestFallback(t *testing.T) {
	b := newTestBot(t)
	b.text(t, 1, "what is this")
	assert.Contains(t, b.gateway.LastText(), "didn't understand")
}
