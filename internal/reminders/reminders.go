package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chuckk589/devovers/internal/metrics"
	"github.com/chuckk589/devovers/internal/models"
	"github.com/chuckk589/devovers/internal/service"
	"github.com/chuckk589/devovers/internal/timeutil"
)

// AppointmentSource is the slice of storage the reminder loop reads and
// flags.
type AppointmentSource interface {
	GetActiveAppointmentsByDateRange(ctx context.Context, startKey, endKey string) ([]models.Appointment, error)
	MarkReminderSent(ctx context.Context, id string) error
}

// UserSource resolves appointment owners to Telegram chats.
type UserSource interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Service sends each client a reminder the day before their visit.
type Service struct {
	schedule     *service.ScheduleService
	appointments AppointmentSource
	users        UserSource
	notifier     service.Notifier
	dailyHour    int
	logger       *zerolog.Logger
	now          func() time.Time
}

func NewService(
	schedule *service.ScheduleService,
	appointments AppointmentSource,
	users UserSource,
	notifier service.Notifier,
	dailyHour int,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		schedule:     schedule,
		appointments: appointments,
		users:        users,
		notifier:     notifier,
		dailyHour:    dailyHour,
		logger:       logger,
		now:          time.Now,
	}
}

// Start runs the daily loop until ctx is cancelled: wait for the configured
// hour in the business timezone, remind, then tick every 24h.
func (s *Service) Start(ctx context.Context) {
	go func() {
		timer := time.NewTimer(s.timeUntilNextHour(ctx, s.dailyHour))
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				s.SendTomorrowReminders(ctx)
				timer.Reset(24 * time.Hour)
			}
		}
	}()
}

// SendTomorrowReminders notifies every owner of a next-day appointment that
// has not been reminded yet. Errors are per-appointment: one broken chat
// never blocks the rest.
func (s *Service) SendTomorrowReminders(ctx context.Context) {
	loc, err := s.schedule.BusinessLocation(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Reminder run skipped")
		return
	}

	tomorrow := timeutil.AddDays(timeutil.StartOfDay(s.now(), loc), 1, loc)
	key := timeutil.DateKey(tomorrow, loc)

	appointments, err := s.appointments.GetActiveAppointmentsByDateRange(ctx, key, key)
	if err != nil {
		s.logger.Error().Err(err).Str("date", key).Msg("Reminder fetch failed")
		return
	}

	sent := 0
	for _, a := range appointments {
		if a.ReminderSent || a.Status == models.StatusCompleted {
			continue
		}

		user, err := s.users.GetUserByID(ctx, a.UserID)
		if err != nil {
			s.logger.Error().Err(err).Str("code", a.Code).Msg("Reminder owner lookup failed")
			continue
		}
		if user.TelegramID == 0 {
			continue
		}

		text := fmt.Sprintf(
			"Напоминание: завтра, %s в %s, вы записаны на обслуживание.\nНомер записи: %s\nАвтомобиль: %s",
			tomorrow.Format("02.01.2006"), a.TimeSlot, a.Code, a.CarBrand,
		)
		if err := s.notifier.NotifyUser(ctx, user.TelegramID, text); err != nil {
			metrics.IncNotification("error")
			s.logger.Error().Err(err).Str("code", a.Code).Msg("Reminder delivery failed")
			continue
		}
		metrics.IncNotification("ok")

		if err := s.appointments.MarkReminderSent(ctx, a.ID); err != nil {
			s.logger.Error().Err(err).Str("code", a.Code).Msg("Reminder flag update failed")
		}
		sent++
	}

	s.logger.Info().Str("date", key).Int("sent", sent).Msg("Reminder run finished")
}

// timeUntilNextHour measures the wait to the next occurrence of the given
// wall-clock hour in the business timezone. The server's own timezone never
// enters the calculation; if the configuration is unreadable the hour is
// taken in UTC and the run itself retries the config.
func (s *Service) timeUntilNextHour(ctx context.Context, hour int) time.Duration {
	loc, err := s.schedule.BusinessLocation(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Reminder schedule fell back to UTC")
		loc = time.UTC
	}

	now := s.now().In(loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
