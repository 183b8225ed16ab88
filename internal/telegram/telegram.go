// Package telegram posts run notifications to a chat through the Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dynamicdevices/audionews/internal/retry"
)

// Notifier sends HTML messages to one chat. Notification failures never
// fail a run that already published its digest; the caller only logs them.
type Notifier struct {
	token   string
	chatID  string
	client  *http.Client
	baseURL string

	sleep func(context.Context, time.Duration) error // nil for real sleeping
}

func NewNotifier(token, chatID string) *Notifier {
	return &Notifier{
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://api.telegram.org",
	}
}

// Notify sends one message, retrying up to three times with a doubling
// backoff.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	return retry.WithRetry(ctx, retry.Config{
		MaxAttempts: 3,
		Delay:       2 * time.Second,
		Sleep:       n.sleep,
	}, func() error {
		return n.sendOnce(ctx, text)
	})
}

func (n *Notifier) sendOnce(ctx context.Context, text string) error {
	payload := map[string]interface{}{
		"chat_id":                  n.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error make JSON: %v", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error make request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("error HTTP request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: status %d", resp.StatusCode)
	}
	return nil
}
