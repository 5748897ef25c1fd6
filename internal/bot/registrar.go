package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/chuckk589/devovers/internal/models"
)

// UserStore upserts Telegram identities as they talk to the bot.
type UserStore interface {
	CreateOrUpdateUser(ctx context.Context, u *models.User) error
}

// UpdateSource is the slice of the bot API the registrar consumes.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Registrar listens to incoming updates and records every sender, so the
// booking flow can later resolve the Telegram identity to a stored user.
type Registrar struct {
	source   UpdateSource
	users    UserStore
	managers map[int64]bool
	logger   *zerolog.Logger
}

func NewRegistrar(source UpdateSource, users UserStore, managers []int64, logger *zerolog.Logger) *Registrar {
	managerSet := make(map[int64]bool, len(managers))
	for _, id := range managers {
		managerSet[id] = true
	}
	return &Registrar{
		source:   source,
		users:    users,
		managers: managerSet,
		logger:   logger,
	}
}

// Run consumes updates until ctx is cancelled.
func (r *Registrar) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := r.source.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			r.source.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			r.handleUpdate(ctx, update)
		}
	}
}

func (r *Registrar) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	user := &models.User{
		TelegramID: msg.From.ID,
		Username:   msg.From.UserName,
		FirstName:  msg.From.FirstName,
		LastName:   msg.From.LastName,
		IsManager:  r.managers[msg.From.ID],
	}
	if msg.Contact != nil && msg.Contact.UserID == msg.From.ID {
		user.Phone = msg.Contact.PhoneNumber
	}

	if err := r.users.CreateOrUpdateUser(ctx, user); err != nil {
		r.logger.Error().Err(err).Int64("telegram_id", user.TelegramID).Msg("User registration failed")
		return
	}
	r.logger.Debug().Int64("telegram_id", user.TelegramID).Msg("User registered")
}
