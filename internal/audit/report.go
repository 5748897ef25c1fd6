package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/chuckk589/devovers/internal/models"
	"github.com/chuckk589/devovers/internal/service"
	"github.com/chuckk589/devovers/internal/timeutil"
)

var monthNames = map[time.Month]string{
	time.January:   "Январь",
	time.February:  "Февраль",
	time.March:     "Март",
	time.April:     "Апрель",
	time.May:       "Май",
	time.June:      "Июнь",
	time.July:      "Июль",
	time.August:    "Август",
	time.September: "Сентябрь",
	time.October:   "Октябрь",
	time.November:  "Ноябрь",
	time.December:  "Декабрь",
}

// ReportFilename builds a name like "Записи_Август_2026.xlsx".
func ReportFilename(t time.Time) string {
	return fmt.Sprintf("Записи_%s_%d.xlsx", monthNames[t.Month()], t.Year())
}

// AppointmentSource fetches the appointments covered by a report period.
type AppointmentSource interface {
	GetActiveAppointmentsByDateRange(ctx context.Context, startKey, endKey string) ([]models.Appointment, error)
}

// DocumentNotifier delivers report workbooks to manager chats.
type DocumentNotifier interface {
	SendDocumentToManagers(ctx context.Context, name string, data []byte)
}

// Service exports a monthly appointments workbook and sends it to managers
// on the first day of each month.
type Service struct {
	schedule     *service.ScheduleService
	appointments AppointmentSource
	notifier     DocumentNotifier
	logger       *zerolog.Logger
	now          func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func NewService(
	schedule *service.ScheduleService,
	appointments AppointmentSource,
	notifier DocumentNotifier,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		schedule:     schedule,
		appointments: appointments,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the monthly export loop.
func (s *Service) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop()

	s.logger.Info().Time("next_run", s.nextFirstOfMonth()).Msg("Report service started")
}

// Stop waits for the loop to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
}

func (s *Service) loop() {
	defer s.wg.Done()

	timer := time.NewTimer(time.Until(s.nextFirstOfMonth()))
	defer timer.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-timer.C:
			s.ExportPreviousMonth()
			timer.Reset(time.Until(s.nextFirstOfMonth()))
		}
	}
}

func (s *Service) nextFirstOfMonth() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month()+1, 1, 0, 1, 0, 0, now.Location())
}

// ExportPreviousMonth builds and delivers the report for the month before
// the current one.
func (s *Service) ExportPreviousMonth() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	period := s.now().AddDate(0, -1, 0)
	if err := s.Export(ctx, period); err != nil {
		s.logger.Error().Err(err).Msg("Monthly report export failed")
	}
}

// Export builds the workbook for the month the given instant falls in and
// sends it to managers.
func (s *Service) Export(ctx context.Context, period time.Time) error {
	loc, err := s.schedule.BusinessLocation(ctx)
	if err != nil {
		return err
	}

	monthStart := time.Date(period.Year(), period.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, -1)

	appointments, err := s.appointments.GetActiveAppointmentsByDateRange(
		ctx, timeutil.DateKey(monthStart, loc), timeutil.DateKey(monthEnd, loc))
	if err != nil {
		return fmt.Errorf("fetch report appointments: %w", err)
	}

	data, err := BuildAppointmentsWorkbook(appointments, loc)
	if err != nil {
		return err
	}

	name := ReportFilename(monthStart)
	s.notifier.SendDocumentToManagers(ctx, name, data)

	s.logger.Info().Str("file", name).Int("rows", len(appointments)).Msg("Monthly report sent")
	return nil
}

// BuildAppointmentsWorkbook renders appointments into a single-sheet
// workbook, one row per appointment.
func BuildAppointmentsWorkbook(appointments []models.Appointment, loc *time.Location) ([]byte, error) {
	wb := NewWorkbook()
	defer wb.Close()

	if err := wb.AddSheet("Записи"); err != nil {
		return nil, err
	}
	header := []string{"Номер", "Дата", "Время", "Статус", "Клиент", "Телефон", "Автомобиль", "Модель", "Гос. номер", "Услуга", "Комментарий"}
	if err := wb.WriteHeader(header); err != nil {
		return nil, err
	}

	for _, a := range appointments {
		serviceName := a.ServiceID
		if a.CustomService != "" {
			serviceName = a.CustomService
		}
		row := []interface{}{
			a.Code,
			a.Date.In(loc).Format("02.01.2006"),
			a.TimeSlot,
			string(a.Status),
			a.ClientName,
			a.ClientPhone,
			a.CarBrand,
			a.CarModel,
			a.LicensePlate,
			serviceName,
			a.Comment,
		}
		if err := wb.WriteRow(row); err != nil {
			return nil, err
		}
	}

	return wb.Bytes()
}
