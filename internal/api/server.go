package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/chuckk589/devovers/internal/database"
	"github.com/chuckk589/devovers/internal/service"
	"github.com/chuckk589/devovers/internal/timeutil"
)

var errInvalidDate = errors.New("invalid date format; expected YYYY-MM-DD")

// HTTPServer exposes the booking engine over JSON HTTP for external
// integrations (CRM, widgets).
type HTTPServer struct {
	schedule     *service.ScheduleService
	availability *service.AvailabilityService
	booking      *service.BookingService
	logger       *zerolog.Logger
	server       *http.Server
}

func NewHTTPServer(
	addr string,
	schedule *service.ScheduleService,
	availability *service.AvailabilityService,
	booking *service.BookingService,
	logger *zerolog.Logger,
) *HTTPServer {
	s := &HTTPServer{
		schedule:     schedule,
		availability: availability,
		booking:      booking,
		logger:       logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/availability", s.handleAvailability)
	mux.HandleFunc("/api/v1/appointments", s.handleAppointments)
	mux.HandleFunc("/api/v1/appointments/", s.handleAppointmentStatus)
	mux.HandleFunc("/api/v1/blocked-slots", s.handleBlockedSlots)
	mux.HandleFunc("/api/v1/blocked-slots/", s.handleBlockedSlotDelete)
	mux.HandleFunc("/api/v1/schedule-config", s.handleScheduleConfig)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the routing table for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// parseBusinessDate interprets a YYYY-MM-DD string as midnight in the
// configured business timezone. Parsing it as UTC would, for timezones west
// of Greenwich, resolve to the previous business day.
func (s *HTTPServer) parseBusinessDate(ctx context.Context, value string) (time.Time, error) {
	loc, err := s.schedule.BusinessLocation(ctx)
	if err != nil {
		return time.Time{}, err
	}
	date, err := timeutil.FromDateKey(value, loc)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return date, nil
}

// writeDateError distinguishes a malformed client date from a failure to
// load the business timezone.
func (s *HTTPServer) writeDateError(w http.ResponseWriter, err error) {
	if errors.Is(err, errInvalidDate) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeServiceError(w, err)
}

// writeServiceError maps domain errors onto HTTP statuses.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrUnknownUser):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidConfiguration):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
