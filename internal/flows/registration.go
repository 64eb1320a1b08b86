package flows

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/engine"
)

var phoneRe = regexp.MustCompile(`^\+?\d{10,15}$`)

// registrationFlow collects name, age, phone, a photo and a document, then
// creates an active account bound to the registering chat.
func registrationFlow(deps Deps) *engine.Flow {
	return &engine.Flow{
		Kind: domain.WizardRegistration,
		Guard: func(ctx context.Context, chatID int64) error {
			user, err := deps.Accounts.ByChat(ctx, chatID)
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return err
			}
			if user != nil {
				phone := user.Phone
				if phone == "" {
					phone = "not set"
				}
				return domain.Precondition("⚠️ You are already registered.\n👤 Name: " + user.Name + "\n📱 Phone: " + phone)
			}
			return nil
		},
		Steps: []engine.Step{
			{
				Field:  "name",
				Prompt: "Enter your name:",
				Validate: func(_ context.Context, ev domain.Event, _ map[string]string) (string, error) {
					name := strings.TrimSpace(ev.Text)
					if len([]rune(name)) < 2 {
						return "", domain.Invalid("⚠️ The name must be at least 2 characters long.")
					}
					return name, nil
				},
			},
			{
				Field:  "age",
				Prompt: "Enter your age (as a number):",
				Validate: func(_ context.Context, ev domain.Event, _ map[string]string) (string, error) {
					age, err := strconv.Atoi(strings.TrimSpace(ev.Text))
					if err != nil {
						return "", domain.Invalid("⚠️ Enter your age as a number.")
					}
					if age < 1 || age > 120 {
						return "", domain.Invalid("⚠️ Enter a real age (1–120).")
					}
					return strconv.Itoa(age), nil
				},
			},
			{
				Field:  "phone",
				Prompt: "Enter your phone number:",
				// Uniqueness is checked here against storage to fail fast;
				// the commit still guards against a racing registration.
				Validate: func(ctx context.Context, ev domain.Event, _ map[string]string) (string, error) {
					phone := strings.TrimSpace(ev.Text)
					if !phoneRe.MatchString(phone) {
						return "", domain.Invalid("⚠️ Enter a phone number like +79998887766 (10–15 digits).")
					}
					_, err := deps.Users.FindByPhone(ctx, phone)
					if err == nil {
						return "", engine.Abort("⚠️ This phone number is already registered.", domain.ErrPhoneTaken)
					}
					if !errors.Is(err, domain.ErrUserNotFound) {
						return "", err
					}
					return phone, nil
				},
			},
			{
				Field:  "photo",
				Prompt: "Send your photo (as a photo, not a file):",
				Validate: func(_ context.Context, ev domain.Event, _ map[string]string) (string, error) {
					if ev.Attachment == nil || ev.Attachment.Kind != domain.AttachmentPhoto {
						return "", domain.Invalid("⚠️ Please send a photo.")
					}
					return ev.Attachment.FileID, nil
				},
			},
			{
				Field:  "document",
				Prompt: "Send a document (PDF or an image, as a file):",
				Validate: func(_ context.Context, ev domain.Event, _ map[string]string) (string, error) {
					if ev.Attachment == nil || ev.Attachment.Kind != domain.AttachmentDocument {
						return "", domain.Invalid("⚠️ Please send the document as a file.")
					}
					mime := ev.Attachment.MimeType
					if !strings.HasPrefix(mime, "application/pdf") && !strings.HasPrefix(mime, "image/") {
						return "", domain.Invalid("⚠️ Only PDF or images (JPG/JPEG/PNG) are accepted.")
					}
					return ev.Attachment.FileID, nil
				},
			},
		},
		Commit: func(ctx context.Context, chatID int64, collected map[string]string) (string, error) {
			age, _ := strconv.Atoi(collected["age"])
			_, err := deps.Accounts.Register(ctx, domain.RegisterInput{
				ChatID:         chatID,
				Name:           collected["name"],
				Age:            age,
				Phone:          collected["phone"],
				PhotoFileID:    collected["photo"],
				DocumentFileID: collected["document"],
				Language:       collected[engine.LanguageKey],
			})
			if errors.Is(err, domain.ErrPhoneTaken) {
				return "", engine.Abort("⚠️ A user with this phone number already exists.", err)
			}
			if errors.Is(err, domain.ErrUserAlreadyExists) {
				return "", engine.Abort("⚠️ This chat is already registered.", err)
			}
			if err != nil {
				return "", err
			}
			send(ctx, deps, chatID, "✅ Registration complete!", mainMenu(deps, chatID))
			return "", nil
		},
	}
}
