package httpx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/engine"
	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/mocks"
)

type recordingAnswerer struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingAnswerer) AnswerCallback(_ context.Context, callbackID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, callbackID)
	return nil
}

type served struct {
	router   *gin.Engine
	gateway  *mocks.MockGateway
	answerer *recordingAnswerer
	commands *[]int64
	payloads *[]string
}

func newServed(t *testing.T, secret string) *served {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	gateway := mocks.NewMockGateway()
	e := engine.New(mocks.NewMockSessionStore(), gateway, log)

	var commands []int64
	var payloads []string
	e.Command(func(_ context.Context, chatID int64) error {
		commands = append(commands, chatID)
		return nil
	}, "/start")
	e.Callback("course", func(_ context.Context, _ int64, payload string) error {
		payloads = append(payloads, payload)
		return nil
	})
	e.Fallback(func(_ context.Context, _ int64) error { return nil })

	answerer := &recordingAnswerer{}
	wh := NewWebhookHandler(e, answerer, log)
	return &served{
		router:   BuildRouter(wh, secret),
		gateway:  gateway,
		answerer: answerer,
		commands: &commands,
		payloads: &payloads,
	}
}

func (s *served) post(t *testing.T, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestWebhookTextMessage(t *testing.T) {
	s := newServed(t, "")
	w := s.post(t, `{"update_id":1,"message":{"chat":{"id":42},"text":"/start"}}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{42}, *s.commands)
}

func TestWebhookCallback(t *testing.T) {
	s := newServed(t, "")
	body := `{"update_id":2,"callback_query":{"id":"cb-1","data":"course:7","message":{"chat":{"id":42}}}}`
	w := s.post(t, body, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"7"}, *s.payloads)
	assert.Equal(t, []string{"cb-1"}, s.answerer.ids)
}

func TestWebhookSecret(t *testing.T) {
	s := newServed(t, "s3cret")

	w := s.post(t, `{"update_id":3,"message":{"chat":{"id":42},"text":"/start"}}`, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, *s.commands)

	w = s.post(t, `{"update_id":3,"message":{"chat":{"id":42},"text":"/start"}}`,
		map[string]string{secretHeader: "s3cret"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{42}, *s.commands)
}

func TestWebhookMalformedPayload(t *testing.T) {
	s := newServed(t, "")
	w := s.post(t, `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookIrrelevantUpdate(t *testing.T) {
	s := newServed(t, "")
	// An update carrying neither message nor callback is acknowledged and
	// dropped.
	w := s.post(t, `{"update_id":4}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, *s.commands)
}

func TestHealthz(t *testing.T) {
	s := newServed(t, "")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEventExtraction(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := NewWebhookHandler(nil, nil, log)

	tests := []struct {
		name       string
		upd        update
		wantChat   int64
		wantOK     bool
		wantEvent  domain.Event
	}{
		{
			name:      "text",
			upd:       update{Message: &message{Chat: chat{ID: 1}, Text: "hello"}},
			wantChat:  1,
			wantOK:    true,
			wantEvent: domain.Event{Text: "hello"},
		},
		{
			name: "text carries the sender language",
			upd: update{Message: &message{
				Chat: chat{ID: 1},
				From: &from{LanguageCode: "kk"},
				Text: "hello",
			}},
			wantChat:  1,
			wantOK:    true,
			wantEvent: domain.Event{Text: "hello", Language: "kk"},
		},
		{
			name: "callback carries the sender language",
			upd: update{Callback: &callback{
				ID:      "cb",
				From:    &from{LanguageCode: "en"},
				Data:    "course:7",
				Message: &message{Chat: chat{ID: 9}},
			}},
			wantChat:  9,
			wantOK:    true,
			wantEvent: domain.Event{Callback: "course:7", Language: "en"},
		},
		{
			name: "photo picks largest resolution",
			upd: update{Message: &message{
				Chat:  chat{ID: 1},
				Photo: []photoSize{{FileID: "small"}, {FileID: "large"}},
			}},
			wantChat: 1,
			wantOK:   true,
			wantEvent: domain.Event{Attachment: &domain.Attachment{
				Kind: domain.AttachmentPhoto, FileID: "large",
			}},
		},
		{
			name: "document with mime",
			upd: update{Message: &message{
				Chat:     chat{ID: 1},
				Document: &document{FileID: "doc", MimeType: "application/pdf"},
			}},
			wantChat: 1,
			wantOK:   true,
			wantEvent: domain.Event{Attachment: &domain.Attachment{
				Kind: domain.AttachmentDocument, FileID: "doc", MimeType: "application/pdf",
			}},
		},
		{
			name:     "callback without message is dropped",
			upd:      update{Callback: &callback{ID: "cb", Data: "x"}},
			wantOK:   false,
		},
		{
			name:   "empty update is dropped",
			upd:    update{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatID, ev, ok := h.event(&tt.upd)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantChat, chatID)
			assert.Equal(t, tt.wantEvent, ev)
		})
	}
}
