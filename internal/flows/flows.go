// Package flows defines the concrete wizards and menu handlers of the
// education-center bot on top of the conversation engine.
package flows

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/engine"
)

const (
	msgNoAccess   = "⛔ No access."
	msgNotFound   = "⚠️ Not found."
	msgNeedLogin  = "⚠️ Please register (/register) or sign in (/login) first."
	dateLayout    = "02.01.2006"
	dateCanonical = "2006-01-02"
)

// Deps bundles everything the flows need.
type Deps struct {
	Accounts     domain.AccountService
	Catalog      domain.CatalogService
	Certificates domain.CertificateService
	Users        domain.UserRepository
	Access       domain.AccessService
	Gateway      domain.Gateway
	Log          *logrus.Logger
}

// Install registers all wizards, commands and callback routes on the engine.
func Install(e *engine.Engine, deps Deps) {
	e.Register(registrationFlow(deps))
	e.Register(authFlow(deps))
	e.Register(courseAddFlow(deps))
	e.Register(courseEditFlow(deps))
	e.Register(courseTitleFlow(deps))
	e.Register(courseDescriptionFlow(deps))
	e.Register(coursePriceFlow(deps))
	e.Register(certificateFlow(deps))

	e.Entry(domain.WizardRegistration, "/register", "Registration")
	e.Entry(domain.WizardAuth, "/login", "Sign in")
	e.CancelCommand("/cancel", "Cancel")

	e.Command(startCommand(deps), "/start", "Start")
	e.Command(logoutCommand(deps), "/logout", "Log out")
	e.Command(coursesCommand(deps), "/courses", "Courses")
	e.Command(myCoursesCommand(deps), "/mycourses", "My courses")
	e.Command(myCertificatesCommand(deps), "My certificates")
	e.Command(allCertificatesCommand(deps), "Certificates")
	e.Command(adminMenuCommand(deps), "/admin", "Manage courses and users")

	installCourseCallbacks(e, deps)
	installCertificateCallbacks(e, deps)
	installAdminCallbacks(e, deps)

	e.Fallback(func(ctx context.Context, chatID int64) error {
		send(ctx, deps, chatID, "I didn't understand that. Please use the menu.", mainMenu(deps, chatID))
		return nil
	})
}

// adminGuard rejects wizard entry for non-administrator identities before
// any session is created.
func adminGuard(access domain.AccessService) func(ctx context.Context, chatID int64) error {
	return func(_ context.Context, chatID int64) error {
		if !access.IsAdmin(chatID) {
			return domain.Precondition(msgNoAccess)
		}
		return nil
	}
}

// requireAdmin gates plain command and callback handlers.
func requireAdmin(ctx context.Context, deps Deps, chatID int64) bool {
	if deps.Access.IsAdmin(chatID) {
		return true
	}
	send(ctx, deps, chatID, msgNoAccess, nil)
	return false
}

// send is best-effort delivery with logging, the policy for every outbound
// message in the flows.
func send(ctx context.Context, deps Deps, chatID int64, text string, menu *domain.Menu) {
	if err := deps.Gateway.Send(ctx, chatID, text, menu); err != nil {
		deps.Log.WithError(err).WithField("chat_id", chatID).Warn("send failed")
	}
}

func startCommand(deps Deps) engine.CommandFunc {
	return func(ctx context.Context, chatID int64) error {
		send(ctx, deps, chatID, "👋 Hello! Welcome to the education center.\nChoose an action:", mainMenu(deps, chatID))
		return nil
	}
}

func logoutCommand(deps Deps) engine.CommandFunc {
	return func(ctx context.Context, chatID int64) error {
		_, err := deps.Accounts.Logout(ctx, chatID)
		if errors.Is(err, domain.ErrUserNotFound) {
			send(ctx, deps, chatID, "⚠️ You were not signed in.", nil)
			return nil
		}
		if err != nil {
			send(ctx, deps, chatID, "⚠️ Could not sign you out, please try again later.", nil)
			return err
		}
		send(ctx, deps, chatID, "🚪 You have been signed out.", nil)
		return nil
	}
}

// mainMenu mirrors the role-aware reply keyboard: admins manage, users browse.
func mainMenu(deps Deps, chatID int64) *domain.Menu {
	buttons := []domain.Button{
		{Label: "Start"},
		{Label: "Registration"},
		{Label: "Sign in"},
		{Label: "Courses"},
	}
	if deps.Access.IsAdmin(chatID) {
		buttons = append(buttons,
			domain.Button{Label: "Certificates"},
			domain.Button{Label: "Manage courses and users"},
		)
	} else {
		buttons = append(buttons,
			domain.Button{Label: "My courses"},
			domain.Button{Label: "My certificates"},
		)
	}
	buttons = append(buttons, domain.Button{Label: "Log out"})
	return domain.NewMenu(buttons...)
}

func adminMenu() *domain.Menu {
	return domain.NewMenu(
		domain.Button{Label: "➕ Add course", Data: "add_course"},
		domain.Button{Label: "🏅 Issue certificate", Data: "add_certificate"},
		domain.Button{Label: "👥 Users", Data: "show_users"},
	)
}

func adminBackMenu() *domain.Menu {
	return domain.NewMenu(domain.Button{Label: "🔙 Admin menu", Data: "admin_menu"})
}

func adminMenuCommand(deps Deps) engine.CommandFunc {
	return func(ctx context.Context, chatID int64) error {
		if !requireAdmin(ctx, deps, chatID) {
			return nil
		}
		send(ctx, deps, chatID, "🛠 Administration:", adminMenu())
		return nil
	}
}

func courseLabel(c *domain.Course) string {
	return fmt.Sprintf("📘 %s\n\n%s\n\n💰 Price: %d", c.Title, c.Description, c.Price)
}
