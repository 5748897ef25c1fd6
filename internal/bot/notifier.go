package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// TelegramSender is the slice of the bot API the notifier needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier pushes messages to Telegram chats. All sends go through a shared
// limiter so bursts of bookings stay under the Bot API flood limits
// (roughly 30 messages per second overall).
type Notifier struct {
	sender   TelegramSender
	managers []int64
	limiter  *rate.Limiter
	logger   *zerolog.Logger
}

func NewNotifier(sender TelegramSender, managers []int64, logger *zerolog.Logger) *Notifier {
	return &Notifier{
		sender:   sender,
		managers: managers,
		limiter:  rate.NewLimiter(rate.Limit(25), 5),
		logger:   logger,
	}
}

// NotifyUser sends a plain text message to a single chat.
func (n *Notifier) NotifyUser(ctx context.Context, chatID int64, text string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := n.sender.Send(msg); err != nil {
		return fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return nil
}

// NotifyManagers delivers a message to every configured manager chat.
// Individual failures are logged and skipped so one dead chat never
// silences the rest.
func (n *Notifier) NotifyManagers(ctx context.Context, text string) {
	for _, chatID := range n.managers {
		if err := n.NotifyUser(ctx, chatID, text); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Manager notification failed")
		}
	}
}

// SendDocument uploads a file (e.g. a report workbook) to a chat.
func (n *Notifier) SendDocument(ctx context.Context, chatID int64, name string, data []byte) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if _, err := n.sender.Send(doc); err != nil {
		return fmt.Errorf("send document to %d: %w", chatID, err)
	}
	return nil
}

// SendDocumentToManagers uploads a file to every manager chat.
func (n *Notifier) SendDocumentToManagers(ctx context.Context, name string, data []byte) {
	for _, chatID := range n.managers {
		if err := n.SendDocument(ctx, chatID, name, data); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Manager document delivery failed")
		}
	}
}
