package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// Gateway implements domain.Gateway against the Telegram Bot API. The Bot API
// is plain JSON over HTTP, so this is a thin client in the same spirit as the
// Twilio service: best-effort, with a mock mode when no token is configured.
type Gateway struct {
	token   string
	baseURL string
	client  *http.Client
	log     *logrus.Entry
}

func NewGateway(token, baseURL string, log *logrus.Logger) *Gateway {
	return &Gateway{
		token:   token,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.WithField("component", "telegram"),
	}
}

type replyButton struct {
	Text string `json:"text"`
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send implements domain.Gateway
func (g *Gateway) Send(ctx context.Context, chatID int64, text string, menu *domain.Menu) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if menu != nil {
		payload["reply_markup"] = keyboard(menu)
	}
	return g.call(ctx, "sendMessage", payload)
}

// SendPhoto implements domain.Gateway
func (g *Gateway) SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error {
	return g.call(ctx, "sendPhoto", map[string]any{
		"chat_id": chatID,
		"photo":   fileID,
		"caption": caption,
	})
}

// SendDocument implements domain.Gateway
func (g *Gateway) SendDocument(ctx context.Context, chatID int64, fileID, caption string) error {
	return g.call(ctx, "sendDocument", map[string]any{
		"chat_id":  chatID,
		"document": fileID,
		"caption":  caption,
	})
}

// AnswerCallback acknowledges a button press so the client stops its spinner.
func (g *Gateway) AnswerCallback(ctx context.Context, callbackID string) error {
	return g.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
	})
}

func keyboard(menu *domain.Menu) map[string]any {
	if menu.Inline() {
		rows := make([][]inlineButton, 0, len(menu.Rows))
		for _, row := range menu.Rows {
			btns := make([]inlineButton, 0, len(row))
			for _, b := range row {
				btns = append(btns, inlineButton{Text: b.Label, CallbackData: b.Data})
			}
			rows = append(rows, btns)
		}
		return map[string]any{"inline_keyboard": rows}
	}

	rows := make([][]replyButton, 0, len(menu.Rows))
	for _, row := range menu.Rows {
		btns := make([]replyButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, replyButton{Text: b.Label})
		}
		rows = append(rows, btns)
	}
	return map[string]any{"keyboard": rows, "resize_keyboard": true}
}

func (g *Gateway) call(ctx context.Context, method string, payload map[string]any) error {
	if g.token == "" {
		g.log.WithField("method", method).Info("mock telegram call")
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", g.baseURL, g.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("telegram %s: bad response: %w", method, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram %s: %s", method, apiResp.Description)
	}
	return nil
}

var _ domain.Gateway = (*Gateway)(nil)
