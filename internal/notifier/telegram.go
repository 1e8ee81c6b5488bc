package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultTelegramURL is the Telegram Bot API host.
const DefaultTelegramURL = "https://api.telegram.org"

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	Client   *resty.Client
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	client := resty.New().
		SetBaseURL(DefaultTelegramURL).
		SetTimeout(35 * time.Second)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		Client:   client,
	}
}

// Send sends a message to the configured chat. Messages longer than the
// Telegram limit are split on line boundaries.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	for _, part := range SplitMessage(text, MaxMessageLen) {
		if err := t.sendOne(ctx, part); err != nil {
			return err
		}
	}
	return nil
}

func (t *TelegramNotifier) sendOne(ctx context.Context, text string) error {
	resp, err := t.Client.R().
		SetContext(ctx).
		SetPathParam("token", t.BotToken).
		SetBody(map[string]string{
			"chat_id":    t.ChatID,
			"text":       text,
			"parse_mode": "HTML",
		}).
		Post("/bot{token}/sendMessage")
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := t.Send(ctx, text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			zap.L().Warn("telegram send failed",
				zap.Int("attempt", i+1),
				zap.Int("max_attempts", maxRetries+1),
				zap.Duration("backoff", backoff),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
