package notification

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of *tgbotapi.BotAPI the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts event messages to staff group chats.
type Telegram struct {
	bot     sender
	chatIDs []int64
}

// NewTelegram connects to the Bot API with token.
func NewTelegram(token string, chatIDs []int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return newTelegram(bot, chatIDs), nil
}

func newTelegram(bot sender, chatIDs []int64) *Telegram {
	return &Telegram{bot: bot, chatIDs: append([]int64(nil), chatIDs...)}
}

func (t *Telegram) Notify(ctx context.Context, e Event) (Result, error) {
	var (
		res     Result
		lastErr error
	)
	for _, id := range t.chatIDs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		msg := tgbotapi.NewMessage(id, formatTelegram(e))
		if _, err := t.bot.Send(msg); err != nil {
			lastErr = fmt.Errorf("telegram chat %d: %w", id, err)
			continue
		}
		res.SentTo = append(res.SentTo, "telegram:"+strconv.FormatInt(id, 10))
	}
	res.Success = lastErr == nil
	return res, lastErr
}

func formatTelegram(e Event) string {
	title := map[EventType]string{
		EventBookingCreated:      "New booking",
		EventBookingCheckedIn:    "Check-in",
		EventBookingCheckedOut:   "Check-out",
		EventBookingCancelled:    "Booking cancelled",
		EventMaintenanceReported: "Repair request",
	}[e.Type]
	if title == "" {
		title = string(e.Type)
	}
	return title + "\n" + e.Message
}
