package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/chuckk589/devovers/internal/metrics"
	"github.com/chuckk589/devovers/internal/models"
)

// AvailabilityResponse is the response for GET /api/v1/availability.
type AvailabilityResponse struct {
	Slots []models.SlotProjection `json:"slots"`
}

// handleAvailability returns the slot projection for the whole horizon, or
// for one date when ?date=YYYY-MM-DD is given.
// GET /api/v1/availability
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var (
		slots []models.SlotProjection
		err   error
	)
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, parseErr := s.parseBusinessDate(r.Context(), dateStr)
		if parseErr != nil {
			s.writeDateError(w, parseErr)
			return
		}
		slots, err = s.availability.ResolveDate(r.Context(), date)
	} else {
		slots, err = s.availability.Resolve(r.Context())
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AvailabilityResponse{Slots: slots})
}

// BlockSlotRequest is the request body for POST /api/v1/blocked-slots.
type BlockSlotRequest struct {
	Date     string  `json:"date"`                // Format: YYYY-MM-DD
	TimeSlot *string `json:"time_slot,omitempty"` // Format: HH:MM; omit to block the whole day
}

// handleBlockedSlots lists blocks or creates one.
// GET|POST /api/v1/blocked-slots
func (s *HTTPServer) handleBlockedSlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("blocked_slots")

	switch r.Method {
	case http.MethodGet:
		blocks, err := s.availability.ListBlocks(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, blocks)

	case http.MethodPost:
		var req BlockSlotRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		date, err := s.parseBusinessDate(r.Context(), req.Date)
		if err != nil {
			s.writeDateError(w, err)
			return
		}
		if req.TimeSlot != nil {
			if _, err := time.Parse("15:04", *req.TimeSlot); err != nil {
				writeError(w, http.StatusBadRequest, "invalid time_slot format; expected HH:MM")
				return
			}
		}

		block, err := s.availability.CreateBlock(r.Context(), date, req.TimeSlot)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, block)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleBlockedSlotDelete removes a block.
// DELETE /api/v1/blocked-slots/{id}
func (s *HTTPServer) handleBlockedSlotDelete(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("blocked_slots")
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/blocked-slots/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "missing block id")
		return
	}

	if err := s.availability.DeleteBlock(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
