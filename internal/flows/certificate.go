package flows

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/engine"
)

const minCertificateTitleLen = 3

// certificateFlow issues a certificate to a selected user: the target user
// arrives as a button press, the title as text, and the file is optional.
func certificateFlow(deps Deps) *engine.Flow {
	return &engine.Flow{
		Kind:  domain.WizardCertificate,
		Guard: adminGuard(deps.Access),
		Steps: []engine.Step{
			{
				Field:  "user_id",
				Prompt: "👥 Choose the user to issue a certificate to:",
				Menu:   certUserMenu(deps),
				Validate: func(_ context.Context, ev domain.Event, _ map[string]string) (string, error) {
					if ev.IsCallback() && strings.HasPrefix(ev.Callback, "cert_user:") {
						return strings.TrimPrefix(ev.Callback, "cert_user:"), nil
					}
					if id, err := strconv.ParseUint(strings.TrimSpace(ev.Text), 10, 32); err == nil {
						return strconv.FormatUint(id, 10), nil
					}
					return "", domain.Invalid("⚠️ Pick a user from the list.")
				},
			},
			{
				Field:  "title",
				Prompt: "📝 Enter the certificate title:",
				Validate: func(_ context.Context, ev domain.Event, _ map[string]string) (string, error) {
					title := strings.TrimSpace(ev.Text)
					if len([]rune(title)) < minCertificateTitleLen {
						return "", domain.Invalid("⚠️ The certificate title must be at least 3 characters long.")
					}
					return title, nil
				},
			},
			{
				Field:  "file",
				Prompt: "📄 Send the certificate file (as a document) or press 'Without file':",
				Menu: func(context.Context, int64) *domain.Menu {
					return domain.NewMenu(domain.Button{Label: "Without file", Data: "cert_no_file"})
				},
				Validate: func(_ context.Context, ev domain.Event, _ map[string]string) (string, error) {
					if ev.Callback == "cert_no_file" {
						return "", nil
					}
					if ev.Attachment != nil && ev.Attachment.Kind == domain.AttachmentDocument {
						return ev.Attachment.FileID, nil
					}
					return "", domain.Invalid("⚠️ Send the file as a document or press 'Without file'.")
				},
			},
		},
		Commit: func(ctx context.Context, chatID int64, collected map[string]string) (string, error) {
			userID, err := strconv.ParseUint(collected["user_id"], 10, 32)
			if err != nil {
				return "", fmt.Errorf("bad user id in session: %w", err)
			}
			cert, user, err := deps.Certificates.Issue(ctx, uint(userID), collected["title"], collected["file"])
			if errors.Is(err, domain.ErrUserNotFound) {
				return "", engine.Abort("⚠️ User not found.", err)
			}
			if err != nil {
				return "", err
			}

			confirmation := fmt.Sprintf("✅ Certificate «%s» issued to %s", cert.Title, displayName(user))
			if cert.FileID != "" {
				confirmation += " with a file"
			}
			return confirmation, nil
		},
	}
}

func displayName(u *domain.User) string {
	if u.Name != "" {
		return u.Name
	}
	return fmt.Sprintf("ID: %d", u.ID)
}

// certUserMenu builds the user-selection keyboard for the first wizard step.
func certUserMenu(deps Deps) func(ctx context.Context, chatID int64) *domain.Menu {
	return func(ctx context.Context, _ int64) *domain.Menu {
		users, err := deps.Users.List(ctx)
		if err != nil {
			deps.Log.WithError(err).Warn("failed to list users for certificate menu")
			return nil
		}
		menu := &domain.Menu{}
		for _, u := range users {
			phone := u.Phone
			if phone == "" {
				phone = "no phone"
			}
			menu.Rows = append(menu.Rows, []domain.Button{{
				Label: fmt.Sprintf("%s (%s)", displayName(&u), phone),
				Data:  fmt.Sprintf("cert_user:%d", u.ID),
			}})
		}
		menu.Rows = append(menu.Rows, []domain.Button{{Label: "🔙 Back", Data: "admin_menu"}})
		return menu
	}
}

func installCertificateCallbacks(e *engine.Engine, deps Deps) {
	e.Callback("add_certificate", func(ctx context.Context, chatID int64, _ string) error {
		if !requireAdmin(ctx, deps, chatID) {
			return nil
		}
		users, err := deps.Users.List(ctx)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			send(ctx, deps, chatID, "📭 No users yet.", adminBackMenu())
			return nil
		}
		return e.Begin(ctx, chatID, domain.WizardCertificate)
	})
}

// myCertificatesCommand lists the calling user's certificates and re-sends
// their files best-effort.
func myCertificatesCommand(deps Deps) engine.CommandFunc {
	return func(ctx context.Context, chatID int64) error {
		certs, err := deps.Certificates.ForChat(ctx, chatID)
		if errors.Is(err, domain.ErrUserNotFound) {
			send(ctx, deps, chatID, msgNeedLogin, nil)
			return nil
		}
		if err != nil {
			return err
		}
		if len(certs) == 0 {
			send(ctx, deps, chatID, "📭 You have no certificates yet.", nil)
			return nil
		}

		for _, cert := range certs {
			send(ctx, deps, chatID, "🏅 "+cert.Title, nil)
			if cert.FileID != "" {
				if err := deps.Gateway.SendDocument(ctx, chatID, cert.FileID, "📄 Your certificate"); err != nil {
					deps.Log.WithError(err).Warn("failed to send certificate file")
				}
			}
		}
		return nil
	}
}

// allCertificatesCommand lists every issued certificate with its owner.
// Admin only.
func allCertificatesCommand(deps Deps) engine.CommandFunc {
	return func(ctx context.Context, chatID int64) error {
		if !requireAdmin(ctx, deps, chatID) {
			return nil
		}
		certs, err := deps.Certificates.All(ctx)
		if err != nil {
			return err
		}
		if len(certs) == 0 {
			send(ctx, deps, chatID, "📭 No certificates yet.", nil)
			return nil
		}

		for _, cert := range certs {
			owner := fmt.Sprintf("user #%d", cert.UserID)
			if user, err := deps.Users.FindByID(ctx, cert.UserID); err == nil {
				owner = displayName(user)
			}
			send(ctx, deps, chatID, fmt.Sprintf("🏅 %s\n👤 Owner: %s", cert.Title, owner), nil)
			if cert.FileID != "" {
				if err := deps.Gateway.SendDocument(ctx, chatID, cert.FileID, "📄 Certificate file"); err != nil {
					deps.Log.WithError(err).Warn("failed to send certificate file")
				}
			}
		}
		return nil
	}
}
