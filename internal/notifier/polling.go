package notifier

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(ctx context.Context, command string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

type updatesResponse struct {
	OK     bool             `json:"ok"`
	Result []telegramUpdate `json:"result"`
}

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	for {
		select {
		case <-ctx.Done():
			zap.L().Info("telegram polling stopped")
			return
		default:
		}

		updates, err := t.poll(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			zap.L().Warn("polling request failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}
		offset = t.dispatch(ctx, updates, offset, handler)
	}
}

func (t *TelegramNotifier) poll(ctx context.Context, offset int) ([]telegramUpdate, error) {
	var result updatesResponse
	_, err := t.Client.R().
		SetContext(ctx).
		SetPathParam("token", t.BotToken).
		SetQueryParam("offset", strconv.Itoa(offset)).
		SetQueryParam("timeout", "30").
		SetResult(&result).
		Get("/bot{token}/getUpdates")
	if err != nil {
		return nil, err
	}
	return result.Result, nil
}

// dispatch runs the handler for every text message from the configured
// chat and returns the next offset.
func (t *TelegramNotifier) dispatch(ctx context.Context, updates []telegramUpdate, offset int, handler CommandHandler) int {
	for _, update := range updates {
		offset = update.UpdateID + 1
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		chatID := strconv.FormatInt(update.Message.Chat.ID, 10)
		if t.ChatID != "" && chatID != t.ChatID {
			zap.L().Warn("ignoring command from unknown chat", zap.String("chat_id", chatID))
			continue
		}
		text := strings.TrimSpace(update.Message.Text)
		zap.L().Info("received command", zap.String("command", text))
		reply := handler(ctx, text)
		if reply != "" {
			if err := t.Send(ctx, reply); err != nil {
				zap.L().Error("send reply", zap.Error(err))
			}
		}
	}
	return offset
}
