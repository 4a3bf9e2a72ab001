package handlers

import "net/http"

// HealthCheck reports that the process is serving
// @Summary Health check
// @Description Liveness probe. Does not contact the spreadsheet.
// @Tags system
// @Produce json
// @Success 200 {object} AddTaskResponse
// @Router /health [get]
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, AddTaskResponse{OK: true})
}
