package flows

import (
	"context"
	"errors"
	"fmt"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/engine"
)

// installAdminCallbacks wires the administration panel: the inline admin menu
// plus user listing and removal. All handlers re-check access because button
// presses can arrive from stale keyboards on non-admin chats.
func installAdminCallbacks(e *engine.Engine, deps Deps) {
	e.Callback("admin_menu", func(ctx context.Context, chatID int64, _ string) error {
		if !requireAdmin(ctx, deps, chatID) {
			return nil
		}
		send(ctx, deps, chatID, "🛠 Administration:", adminMenu())
		return nil
	})

	e.Callback("show_users", func(ctx context.Context, chatID int64, _ string) error {
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

		for i := range users {
			u := &users[i]
			card := userCard(u)
			menu := domain.NewMenu(domain.Button{
				Label: "🗑 Delete",
				Data:  fmt.Sprintf("delete_user:%d", u.ID),
			})
			if u.PhotoFileID != "" {
				if err := deps.Gateway.SendPhoto(ctx, chatID, u.PhotoFileID, card); err != nil {
					deps.Log.WithError(err).WithField("user_id", u.ID).Warn("failed to send user photo")
					send(ctx, deps, chatID, card, menu)
					continue
				}
				send(ctx, deps, chatID, "Actions for "+displayName(u)+":", menu)
				continue
			}
			send(ctx, deps, chatID, card, menu)
		}
		menu := domain.NewMenu(
			domain.Button{Label: "🗑 Delete all users", Data: "delete_all_users"},
			domain.Button{Label: "🔙 Admin menu", Data: "admin_menu"},
		)
		send(ctx, deps, chatID, fmt.Sprintf("👥 Total users: %d", len(users)), menu)
		return nil
	})

	e.Callback("delete_all_users", func(ctx context.Context, chatID int64, _ string) error {
		if !requireAdmin(ctx, deps, chatID) {
			return nil
		}
		users, err := deps.Users.List(ctx)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			send(ctx, deps, chatID, "📭 No users to delete.", adminBackMenu())
			return nil
		}
		menu := domain.NewMenu(
			domain.Button{Label: "❗ Yes, delete everyone", Data: "confirm_delete_all"},
			domain.Button{Label: "🔙 Admin menu", Data: "admin_menu"},
		)
		send(ctx, deps, chatID, fmt.Sprintf("⚠️ Delete all %d users with their enrollments and certificates?", len(users)), menu)
		return nil
	})

	e.Callback("confirm_delete_all", func(ctx context.Context, chatID int64, _ string) error {
		if !requireAdmin(ctx, deps, chatID) {
			return nil
		}
		users, err := deps.Users.List(ctx)
		if err != nil {
			return err
		}
		var removed int
		for i := range users {
			err := deps.Users.Delete(ctx, users[i].ID)
			if errors.Is(err, domain.ErrUserNotFound) {
				continue // deleted concurrently
			}
			if err != nil {
				return err
			}
			removed++
		}
		send(ctx, deps, chatID, fmt.Sprintf("🗑 All users deleted (%d).", removed), adminBackMenu())
		return nil
	})

	e.Callback("delete_user", func(ctx context.Context, chatID int64, payload string) error {
		if !requireAdmin(ctx, deps, chatID) {
			return nil
		}
		id, err := parseID(payload)
		if err != nil {
			send(ctx, deps, chatID, msgNotFound, nil)
			return nil
		}
		user, err := deps.Users.FindByID(ctx, id)
		if errors.Is(err, domain.ErrUserNotFound) {
			send(ctx, deps, chatID, "⚠️ User not found.", nil)
			return nil
		}
		if err != nil {
			return err
		}
		if err := deps.Users.Delete(ctx, id); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				send(ctx, deps, chatID, "⚠️ User not found.", nil)
				return nil
			}
			return err
		}
		send(ctx, deps, chatID, fmt.Sprintf("🗑 User %s deleted.", displayName(user)), adminBackMenu())
		return nil
	})
}

func userCard(u *domain.User) string {
	phone := u.Phone
	if phone == "" {
		phone = "—"
	}
	status := "inactive"
	if u.Active {
		status = "active"
	}
	return fmt.Sprintf("👤 %s\n🆔 %d\n🎂 Age: %d\n📱 %s\n🔑 Status: %s",
		displayName(u), u.ID, u.Age, phone, status)
}
