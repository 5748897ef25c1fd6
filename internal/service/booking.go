package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chuckk589/devovers/internal/database"
	"github.com/chuckk589/devovers/internal/metrics"
	"github.com/chuckk589/devovers/internal/models"
	"github.com/chuckk589/devovers/internal/timeutil"
)

const (
	codeCharset     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength      = 6
	codeMaxAttempts = 10
)

// BookingRequest carries everything needed to create an appointment.
type BookingRequest struct {
	TelegramID      int64     `json:"telegram_id"`
	ServiceID       string    `json:"service_id"`
	CustomService   string    `json:"custom_service,omitempty"`
	MaintenanceInfo string    `json:"maintenance_info,omitempty"`
	CarBrand        string    `json:"car_brand"`
	CustomCarBrand  string    `json:"custom_car_brand,omitempty"`
	CarModel        string    `json:"car_model,omitempty"`
	CarYear         string    `json:"car_year,omitempty"`
	LicensePlate    string    `json:"license_plate,omitempty"`
	Date            time.Time `json:"date"`
	TimeSlot        string    `json:"time_slot"`
	ClientName      string    `json:"client_name"`
	ClientPhone     string    `json:"client_phone,omitempty"`
	Comment         string    `json:"comment,omitempty"`
}

// BookingService converts booking requests into persisted appointments and
// drives the appointment status machine.
type BookingService struct {
	schedule     *ScheduleService
	availability *AvailabilityService
	appointments AppointmentRepository
	users        UserRepository
	notifier     Notifier
	logger       *zerolog.Logger
	now          func() time.Time
}

func NewBookingService(
	schedule *ScheduleService,
	availability *AvailabilityService,
	appointments AppointmentRepository,
	users UserRepository,
	notifier Notifier,
	logger *zerolog.Logger,
) *BookingService {
	return &BookingService{
		schedule:     schedule,
		availability: availability,
		appointments: appointments,
		users:        users,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// Book validates the requested slot against a freshly resolved availability
// projection and persists the appointment with status pending. The slot
// check and the insert are not one atomic unit: a concurrent booking for the
// same slot can slip between them (see DESIGN.md).
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	loc, err := s.schedule.BusinessLocation(ctx)
	if err != nil {
		return nil, err
	}

	dateKey := timeutil.DateKey(req.Date, loc)

	// Never trust a client-supplied availability snapshot.
	projections, err := s.availability.ResolveDate(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	available := false
	for _, p := range projections {
		if p.Date == dateKey && p.Time == req.TimeSlot && p.Status == models.SlotAvailable {
			available = true
			break
		}
	}
	if !available {
		metrics.IncSlotConflict()
		return nil, fmt.Errorf("%w: %s %s", ErrSlotUnavailable, dateKey, req.TimeSlot)
	}

	user, err := s.users.GetUserByTelegramID(ctx, req.TelegramID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: telegram id %d", ErrUnknownUser, req.TelegramID)
		}
		return nil, err
	}

	code, err := s.issueCode(ctx)
	if err != nil {
		return nil, err
	}

	carBrand := req.CarBrand
	if req.CustomCarBrand != "" {
		carBrand = req.CustomCarBrand
	}

	appointment := &models.Appointment{
		ID:              uuid.NewString(),
		Code:            code,
		ServiceID:       req.ServiceID,
		CustomService:   req.CustomService,
		MaintenanceInfo: req.MaintenanceInfo,
		CarBrand:        carBrand,
		CustomCarBrand:  req.CustomCarBrand,
		CarModel:        req.CarModel,
		CarYear:         req.CarYear,
		LicensePlate:    req.LicensePlate,
		Date:            timeutil.StartOfDay(req.Date, loc),
		TimeSlot:        req.TimeSlot,
		ClientName:      req.ClientName,
		ClientPhone:     req.ClientPhone,
		Comment:         req.Comment,
		Status:          models.StatusPending,
		UserID:          user.ID,
		CreatedAt:       s.now(),
		UpdatedAt:       s.now(),
	}

	if err := s.appointments.CreateAppointment(ctx, appointment); err != nil {
		return nil, err
	}

	metrics.IncAppointmentCreated(string(appointment.Status))
	s.availability.InvalidateCache(ctx)

	s.logger.Info().
		Str("code", appointment.Code).
		Str("date", dateKey).
		Str("time_slot", appointment.TimeSlot).
		Int64("user_id", user.ID).
		Msg("Appointment created")

	s.notifyBooked(appointment, user)
	return appointment, nil
}

// UpdateStatus applies a status transition, rejecting anything the state
// machine forbids.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}

	appointment, err := s.appointments.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if !appointment.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, status)
	}

	if err := s.appointments.UpdateAppointmentStatus(ctx, id, status); err != nil {
		return nil, err
	}

	appointment.Status = status
	appointment.UpdatedAt = s.now()

	metrics.IncStatusTransition(string(status))
	// A cancellation frees the slot for new bookings.
	s.availability.InvalidateCache(ctx)

	s.logger.Info().Str("code", appointment.Code).Str("status", string(status)).Msg("Appointment status updated")

	s.notifyStatusChanged(appointment)
	return appointment, nil
}

// CancelOwn cancels an appointment on behalf of its owning user; owners may
// cancel but not perform any other transition.
func (s *BookingService) CancelOwn(ctx context.Context, id string, telegramID int64) (*models.Appointment, error) {
	user, err := s.users.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: telegram id %d", ErrUnknownUser, telegramID)
		}
		return nil, err
	}

	appointment, err := s.appointments.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.UserID != user.ID {
		return nil, database.ErrNotFound
	}

	return s.UpdateStatus(ctx, id, models.StatusCancelled)
}

// ListAppointments returns every appointment, newest first.
func (s *BookingService) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	return s.appointments.ListAppointments(ctx)
}

// ListUserAppointments returns the appointments owned by a Telegram user.
// An unregistered identity gets an empty list, not an error.
func (s *BookingService) ListUserAppointments(ctx context.Context, telegramID int64) ([]models.Appointment, error) {
	user, err := s.users.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.appointments.GetUserAppointments(ctx, user.ID)
}

// issueCode mints a human-readable code APP-<year>-<6 chars>, drawing random
// candidates and checking each against storage. After codeMaxAttempts
// collisions it falls back to a time-derived suffix so the caller always
// makes progress; the unique index on the column is the authoritative guard.
// Candidates come from the package-level rand source, which is safe for
// concurrent bookings.
func (s *BookingService) issueCode(ctx context.Context) (string, error) {
	year := s.now().Year()

	for attempt := 0; attempt < codeMaxAttempts; attempt++ {
		var b strings.Builder
		for i := 0; i < codeLength; i++ {
			b.WriteByte(codeCharset[rand.Intn(len(codeCharset))])
		}
		code := fmt.Sprintf("APP-%d-%s", year, b.String())

		exists, err := s.appointments.AppointmentCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	suffix := strings.ToUpper(strconv.FormatInt(s.now().UnixMilli(), 36))
	if len(suffix) > codeLength {
		suffix = suffix[len(suffix)-codeLength:]
	}
	return fmt.Sprintf("APP-%d-%s", year, suffix), nil
}

func (s *BookingService) notifyBooked(a *models.Appointment, user *models.User) {
	if s.notifier == nil {
		return
	}

	// Fire and forget: notification failure must never roll back a booking.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		text := fmt.Sprintf(
			"Запись создана!\n\nНомер: %s\nДата: %s\nВремя: %s\nАвтомобиль: %s",
			a.Code, a.Date.Format("02.01.2006"), a.TimeSlot, a.CarBrand,
		)
		if err := s.notifier.NotifyUser(ctx, user.TelegramID, text); err != nil {
			metrics.IncNotification("error")
			s.logger.Error().Err(err).Str("code", a.Code).Msg("Booking notification failed")
			return
		}
		metrics.IncNotification("ok")

		s.notifier.NotifyManagers(ctx, fmt.Sprintf(
			"Новая запись %s: %s %s, %s (%s)",
			a.Code, a.Date.Format("02.01.2006"), a.TimeSlot, a.ClientName, a.CarBrand,
		))
	}()
}

func (s *BookingService) notifyStatusChanged(a *models.Appointment) {
	if s.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := s.users.GetUserByID(ctx, a.UserID)
		if err != nil {
			s.logger.Debug().Err(err).Str("code", a.Code).Msg("Status notification skipped")
			return
		}

		text := fmt.Sprintf(
			"Статус записи %s изменён: %s\nДата: %s %s",
			a.Code, statusLabel(a.Status), a.Date.Format("02.01.2006"), a.TimeSlot,
		)
		if err := s.notifier.NotifyUser(ctx, user.TelegramID, text); err != nil {
			metrics.IncNotification("error")
			s.logger.Error().Err(err).Str("code", a.Code).Msg("Status notification failed")
			return
		}
		metrics.IncNotification("ok")
	}()
}

func statusLabel(status models.AppointmentStatus) string {
	switch status {
	case models.StatusPending:
		return "ожидает подтверждения"
	case models.StatusConfirmed:
		return "подтверждена"
	case models.StatusCompleted:
		return "завершена"
	case models.StatusCancelled:
		return "отменена"
	}
	return string(status)
}
