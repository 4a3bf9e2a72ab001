package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"task-logger/internal/common/errors"
	"task-logger/internal/common/logging"
	"task-logger/internal/models"
	"task-logger/internal/tasklog"
)

// AddTask logs a task to the spreadsheet
// @Summary Log a task
// @Description Appends a task row unless an identical task and deadline was logged in the dedupe window
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param task body models.TaskRequest true "Task to log"
// @Success 200 {object} AddTaskResponse
// @Failure 401 {object} ErrorResponse "Missing bearer token"
// @Failure 403 {object} ErrorResponse "Invalid token"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Failure 500 {object} ErrorResponse "Configuration or spreadsheet failure"
// @Router /add_task [post]
func (h *Handlers) AddTask(w http.ResponseWriter, r *http.Request) {
	var req models.TaskRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		h.writeError(w, r, errors.ValidationError(fmt.Sprintf("invalid request body: %v", err)))
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		h.writeError(w, r, errors.ValidationError("invalid request body: unexpected data after JSON object"))
		return
	}

	if field := req.MissingField(); field != "" {
		h.writeError(w, r, errors.ValidationError(fmt.Sprintf("field '%s' is required", field)).
			WithContext("field", field))
		return
	}

	in := req.Normalize()
	if err := h.validator.ValidateSchema(in); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.auth.Authorize(r.Header.Get("Authorization")); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.validator.ValidateContent(in); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.pipeline.Submit(r.Context(), tasklog.Submission{
		Task:     in.Task,
		Assignee: in.AssignedTo,
		Priority: in.Priority,
		Deadline: in.Deadline,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if res.Duplicate {
		h.logger.WithContext(r.Context()).Debug("Answered duplicate submission", logging.Field{Key: "task", Value: in.Task})
	}
	writeJSON(w, http.StatusOK, AddTaskResponse{OK: true, Duplicate: res.Duplicate})
}
