// Package handlers implements the HTTP endpoints of the task logger.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"task-logger/internal/auth"
	"task-logger/internal/common/errors"
	"task-logger/internal/common/logging"
	"task-logger/internal/common/validation"
	"task-logger/internal/tasklog"
)

// maxBodyBytes bounds the size of a task submission.
const maxBodyBytes = 1 << 20

// Submitter logs a normalized task.
type Submitter interface {
	Submit(ctx context.Context, s tasklog.Submission) (tasklog.Result, error)
}

// Handlers serves the task logger endpoints.
type Handlers struct {
	pipeline  Submitter
	auth      *auth.BearerAuth
	validator *validation.CentralizedValidator
	logger    logging.Logger
}

// AddTaskResponse is the body of a successful POST /add_task.
type AddTaskResponse struct {
	OK        bool `json:"ok"`
	Duplicate bool `json:"duplicate,omitempty"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// New creates handlers submitting to pipeline and guarded by bearer.
func New(pipeline Submitter, bearer *auth.BearerAuth) *Handlers {
	return &Handlers{
		pipeline:  pipeline,
		auth:      bearer,
		validator: validation.NewCentralizedValidator(),
		logger:    logging.WithFields(logging.Field{Key: "component", Value: "handlers"}),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError answers with the status mapped from err and a detail message.
// Errors outside the AppError taxonomy are reported without their text.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)

	detail := "Internal server error"
	if appErr, ok := errors.As(err); ok {
		detail = appErr.Detail()
	}

	if status >= http.StatusInternalServerError {
		h.logger.WithContext(r.Context()).Error("Request failed", err,
			logging.Field{Key: "path", Value: r.URL.Path},
			logging.Field{Key: "type", Value: string(errors.GetType(err))},
		)
	}

	writeJSON(w, status, ErrorResponse{Detail: detail})
}
