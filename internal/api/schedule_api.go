package api

import (
	"encoding/json"
	"net/http"

	"github.com/chuckk589/devovers/internal/metrics"
	"github.com/chuckk589/devovers/internal/models"
)

// handleScheduleConfig reads or partially updates the schedule configuration.
// GET|PATCH /api/v1/schedule-config
func (s *HTTPServer) handleScheduleConfig(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("schedule_config")

	switch r.Method {
	case http.MethodGet:
		cfg, err := s.schedule.GetConfig(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)

	case http.MethodPatch:
		var upd models.ScheduleConfigUpdate
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&upd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		cfg, err := s.schedule.UpdateConfig(r.Context(), upd)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
