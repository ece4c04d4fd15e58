package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Telegram struct {
	Token   string
	ChatID  string
	BaseURL string // defaults to the public Bot API
	HTTP    *http.Client
}

// NewTelegram returns nil unless both token and chat are set.
func NewTelegram(token, chatID string) *Telegram {
	if token == "" || chatID == "" {
		return nil
	}
	return &Telegram{
		Token:   token,
		ChatID:  chatID,
		BaseURL: "https://api.telegram.org",
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *Telegram) Send(ctx context.Context, title, text string) error {
	payload := map[string]any{
		"chat_id":                  t.ChatID,
		"text":                     title + "\n" + text,
		"disable_web_page_preview": true,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	u := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("telegram request: %w", redactURL(err))
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := t.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", redactURL(err))
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return fmt.Errorf("telegram status %d: %s", res.StatusCode, msg)
	}
	return nil
}
