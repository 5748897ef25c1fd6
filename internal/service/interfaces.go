package service

import (
	"context"

	"github.com/chuckk589/devovers/internal/models"
)

// ConfigRepository persists the singleton schedule configuration.
type ConfigRepository interface {
	GetScheduleConfig(ctx context.Context) (*models.ScheduleConfig, error)
	CreateScheduleConfig(ctx context.Context, cfg *models.ScheduleConfig) error
	UpdateScheduleConfig(ctx context.Context, cfg *models.ScheduleConfig) error
}

// AppointmentRepository persists appointments.
type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, a *models.Appointment) error
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	GetActiveAppointmentsByDateRange(ctx context.Context, startKey, endKey string) ([]models.Appointment, error)
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	GetUserAppointments(ctx context.Context, userID int64) ([]models.Appointment, error)
	AppointmentCodeExists(ctx context.Context, code string) (bool, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) error
}

// BlockedSlotRepository persists administrator blocks.
type BlockedSlotRepository interface {
	CreateBlockedSlot(ctx context.Context, b *models.BlockedSlot) error
	GetBlockedSlotsByDateRange(ctx context.Context, startKey, endKey string) ([]models.BlockedSlot, error)
	ListBlockedSlots(ctx context.Context) ([]models.BlockedSlot, error)
	DeleteBlockedSlot(ctx context.Context, id string) error
}

// UserRepository resolves identities. The engine never creates users.
type UserRepository interface {
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Notifier delivers best-effort messages. Failures are logged by callers and
// never fail the operation that triggered them.
type Notifier interface {
	NotifyUser(ctx context.Context, chatID int64, text string) error
	NotifyManagers(ctx context.Context, text string)
}
