package httpx

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/engine"
)

// update mirrors the subset of the Telegram Bot API Update object the bot
// consumes. Everything else in the payload is ignored.
type update struct {
	UpdateID int64     `json:"update_id"`
	Message  *message  `json:"message"`
	Callback *callback `json:"callback_query"`
}

type message struct {
	Chat     chat        `json:"chat"`
	From     *from       `json:"from"`
	Text     string      `json:"text"`
	Photo    []photoSize `json:"photo"`
	Document *document   `json:"document"`
}

type from struct {
	LanguageCode string `json:"language_code"`
}

type chat struct {
	ID int64 `json:"id"`
}

type photoSize struct {
	FileID string `json:"file_id"`
}

type document struct {
	FileID   string `json:"file_id"`
	MimeType string `json:"mime_type"`
}

type callback struct {
	ID      string   `json:"id"`
	From    *from    `json:"from"`
	Data    string   `json:"data"`
	Message *message `json:"message"`
}

// CallbackAnswerer acknowledges button presses so clients stop their spinner.
type CallbackAnswerer interface {
	AnswerCallback(ctx context.Context, callbackID string) error
}

// WebhookHandler turns Telegram webhook updates into engine events. Updates
// for the same chat are serialized so wizard steps cannot interleave;
// different chats proceed concurrently.
type WebhookHandler struct {
	engine   *engine.Engine
	answerer CallbackAnswerer
	locks    sync.Map // chatID -> *sync.Mutex
	log      *logrus.Entry
}

func NewWebhookHandler(e *engine.Engine, answerer CallbackAnswerer, log *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		engine:   e,
		answerer: answerer,
		log:      log.WithField("component", "webhook"),
	}
}

// Handle is the POST /telegram/webhook endpoint. It always answers 200 once
// the payload parses: Telegram re-delivers on non-2xx, and a handler error
// is not something a retry of the same update would fix.
func (h *WebhookHandler) Handle(c *gin.Context) {
	var upd update
	if err := c.ShouldBindJSON(&upd); err != nil {
		h.log.WithError(err).Warn("malformed webhook payload")
		c.JSON(400, gin.H{"error": "malformed update"})
		return
	}

	chatID, ev, ok := h.event(&upd)
	if !ok {
		c.JSON(200, gin.H{"ok": true})
		return
	}

	if upd.Callback != nil && upd.Callback.ID != "" {
		if err := h.answerer.AnswerCallback(c.Request.Context(), upd.Callback.ID); err != nil {
			h.log.WithError(err).Debug("callback ack failed")
		}
	}

	mu := h.chatLock(chatID)
	mu.Lock()
	defer mu.Unlock()

	if err := h.engine.Handle(c.Request.Context(), chatID, ev); err != nil {
		h.log.WithError(err).WithField("chat_id", chatID).Error("update handling failed")
	}
	c.JSON(200, gin.H{"ok": true})
}

// event extracts the chat and the single meaningful input from an update.
func (h *WebhookHandler) event(upd *update) (int64, domain.Event, bool) {
	if cb := upd.Callback; cb != nil {
		if cb.Message == nil {
			return 0, domain.Event{}, false
		}
		ev := domain.Event{Callback: cb.Data}
		if cb.From != nil {
			ev.Language = cb.From.LanguageCode
		}
		return cb.Message.Chat.ID, ev, true
	}

	msg := upd.Message
	if msg == nil {
		return 0, domain.Event{}, false
	}
	ev := domain.Event{Text: msg.Text}
	if msg.From != nil {
		ev.Language = msg.From.LanguageCode
	}
	if len(msg.Photo) > 0 {
		// Telegram sends every resolution; the last entry is the largest.
		ev.Attachment = &domain.Attachment{
			Kind:   domain.AttachmentPhoto,
			FileID: msg.Photo[len(msg.Photo)-1].FileID,
		}
	} else if msg.Document != nil {
		ev.Attachment = &domain.Attachment{
			Kind:     domain.AttachmentDocument,
			FileID:   msg.Document.FileID,
			MimeType: msg.Document.MimeType,
		}
	}
	return msg.Chat.ID, ev, true
}

// chatLock returns the mutex serializing updates for one chat. Entries are
// never evicted: one mutex per chat that ever wrote to the bot stays within
// a few megabytes even at hundreds of thousands of chats.
func (h *WebhookHandler) chatLock(chatID int64) *sync.Mutex {
	mu, _ := h.locks.LoadOrStore(chatID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
