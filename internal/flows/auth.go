package flows

import (
	"context"
	"errors"
	"strings"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/engine"
)

// authFlow binds an existing account to the current chat by phone number.
func authFlow(deps Deps) *engine.Flow {
	return &engine.Flow{
		Kind: domain.WizardAuth,
		Guard: func(ctx context.Context, chatID int64) error {
			_, err := deps.Accounts.ByChat(ctx, chatID)
			if err == nil {
				return domain.Precondition("✅ You are already signed in!")
			}
			if !errors.Is(err, domain.ErrUserNotFound) {
				return err
			}
			return nil
		},
		Steps: []engine.Step{
			{
				Field:  "phone",
				Prompt: "Enter your phone number (like +79998887766):",
				Validate: func(_ context.Context, ev domain.Event, _ map[string]string) (string, error) {
					phone := strings.TrimSpace(ev.Text)
					if !phoneRe.MatchString(phone) {
						return "", domain.Invalid("⚠️ Enter a phone number like +79998887766 (10–15 digits).")
					}
					return phone, nil
				},
			},
		},
		Commit: func(ctx context.Context, chatID int64, collected map[string]string) (string, error) {
			_, err := deps.Accounts.Login(ctx, chatID, collected["phone"])
			if errors.Is(err, domain.ErrUserNotFound) {
				return "", engine.Abort("⚠️ No user with this phone number. Register with /register.", err)
			}
			if errors.Is(err, domain.ErrAccountAlreadyBound) {
				return "", engine.Abort("⚠️ This account is already bound to another Telegram user.", err)
			}
			if err != nil {
				return "", err
			}
			send(ctx, deps, chatID, "✅ Signed in! Welcome!", mainMenu(deps, chatID))
			return "", nil
		},
	}
}
