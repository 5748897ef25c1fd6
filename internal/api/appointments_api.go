package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chuckk589/devovers/internal/metrics"
	"github.com/chuckk589/devovers/internal/models"
	"github.com/chuckk589/devovers/internal/service"
)

// CreateAppointmentRequest is the request body for POST /api/v1/appointments.
type CreateAppointmentRequest struct {
	TelegramID      int64  `json:"telegram_id"`
	ServiceID       string `json:"service_id"`
	CustomService   string `json:"custom_service,omitempty"`
	MaintenanceInfo string `json:"maintenance_info,omitempty"`
	CarBrand        string `json:"car_brand"`
	CustomCarBrand  string `json:"custom_car_brand,omitempty"`
	CarModel        string `json:"car_model,omitempty"`
	CarYear         string `json:"car_year,omitempty"`
	LicensePlate    string `json:"license_plate,omitempty"`
	Date            string `json:"date"`      // Format: YYYY-MM-DD
	TimeSlot        string `json:"time_slot"` // Format: HH:MM
	ClientName      string `json:"client_name"`
	ClientPhone     string `json:"client_phone,omitempty"`
	Comment         string `json:"comment,omitempty"`
}

// handleAppointments books an appointment or lists existing ones.
// GET|POST /api/v1/appointments
func (s *HTTPServer) handleAppointments(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("appointments")

	switch r.Method {
	case http.MethodGet:
		if tgStr := r.URL.Query().Get("telegram_id"); tgStr != "" {
			telegramID, err := strconv.ParseInt(tgStr, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid telegram_id")
				return
			}
			list, err := s.booking.ListUserAppointments(r.Context(), telegramID)
			if err != nil {
				s.writeServiceError(w, err)
				return
			}
			if list == nil {
				list = []models.Appointment{}
			}
			writeJSON(w, http.StatusOK, list)
			return
		}

		list, err := s.booking.ListAppointments(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var req CreateAppointmentRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if req.TelegramID == 0 || req.Date == "" || req.TimeSlot == "" || req.ClientName == "" {
			writeError(w, http.StatusBadRequest, "telegram_id, date, time_slot and client_name are required")
			return
		}
		date, err := s.parseBusinessDate(r.Context(), req.Date)
		if err != nil {
			s.writeDateError(w, err)
			return
		}
		if _, err := time.Parse("15:04", req.TimeSlot); err != nil {
			writeError(w, http.StatusBadRequest, "invalid time_slot format; expected HH:MM")
			return
		}

		appointment, err := s.booking.Book(r.Context(), service.BookingRequest{
			TelegramID:      req.TelegramID,
			ServiceID:       req.ServiceID,
			CustomService:   req.CustomService,
			MaintenanceInfo: req.MaintenanceInfo,
			CarBrand:        req.CarBrand,
			CustomCarBrand:  req.CustomCarBrand,
			CarModel:        req.CarModel,
			CarYear:         req.CarYear,
			LicensePlate:    req.LicensePlate,
			Date:            date,
			TimeSlot:        req.TimeSlot,
			ClientName:      req.ClientName,
			ClientPhone:     req.ClientPhone,
			Comment:         req.Comment,
		})
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, appointment)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// UpdateStatusRequest is the request body for PATCH
// /api/v1/appointments/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// handleAppointmentStatus transitions an appointment between statuses.
// PATCH /api/v1/appointments/{id}/status
func (s *HTTPServer) handleAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("appointment_status")
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/appointments/")
	id, ok := strings.CutSuffix(rest, "/status")
	if !ok || id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var req UpdateStatusRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	appointment, err := s.booking.UpdateStatus(r.Context(), id, models.AppointmentStatus(req.Status))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}
