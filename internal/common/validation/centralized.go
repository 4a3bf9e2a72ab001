package validation

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"task-logger/internal/common/errors"
	"task-logger/internal/models"
)

// CentralizedValidator wraps go-playground/validator with the task rules
// registered as tags.
type CentralizedValidator struct {
	validator *validator.Validate
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
	Param   string `json:"param,omitempty"`
}

// NewCentralizedValidator creates a validator with the task tags registered
func NewCentralizedValidator() *CentralizedValidator {
	v := validator.New()

	registerTaskValidators(v)

	// Report fields by their JSON keys ("Assigned To", not AssignedTo)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &CentralizedValidator{validator: v}
}

// ValidateStruct validates a struct using struct tags
func (cv *CentralizedValidator) ValidateStruct(s interface{}) error {
	if err := cv.validator.Struct(s); err != nil {
		return cv.formatValidationErrors(err)
	}
	return nil
}

// Errors returns the structured errors for s, or nil when it is valid
func (cv *CentralizedValidator) Errors(s interface{}) []ValidationError {
	err := cv.validator.Struct(s)
	if err == nil {
		return nil
	}
	return cv.extractValidationErrors(err)
}

type schemaFields struct {
	Priority   models.Priority `json:"Priority" validate:"priority"`
	AssignedTo models.Assignee `json:"Assigned To" validate:"assignee"`
}

type contentFields struct {
	Task     string `json:"Task" validate:"required"`
	Deadline string `json:"Deadline" validate:"deadline"`
}

// ValidateSchema checks the enumerated fields of a normalized request.
func (cv *CentralizedValidator) ValidateSchema(in models.TaskInput) error {
	return cv.ValidateStruct(schemaFields{Priority: in.Priority, AssignedTo: in.AssignedTo})
}

// ValidateContent checks the free-text fields of a normalized request:
// the task must be non-empty and the deadline empty or YYYY-MM-DD sized.
func (cv *CentralizedValidator) ValidateContent(in models.TaskInput) error {
	return cv.ValidateStruct(contentFields{Task: in.Task, Deadline: in.Deadline})
}

func (cv *CentralizedValidator) formatValidationErrors(err error) error {
	validationErrors := cv.extractValidationErrors(err)
	if len(validationErrors) == 1 {
		return errors.ValidationError(validationErrors[0].Message).
			WithContext("field", validationErrors[0].Field)
	}

	messages := make([]string, len(validationErrors))
	for i, e := range validationErrors {
		messages[i] = e.Message
	}

	return errors.ValidationError(fmt.Sprintf("validation failed: %s", strings.Join(messages, "; ")))
}

func (cv *CentralizedValidator) extractValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   fieldError.Field(),
				Tag:     fieldError.Tag(),
				Value:   fmt.Sprintf("%v", fieldError.Value()),
				Message: cv.formatFieldError(fieldError),
				Param:   fieldError.Param(),
			})
		}
	} else {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "unknown",
			Tag:     "error",
			Message: err.Error(),
		})
	}

	return validationErrors
}

func (cv *CentralizedValidator) formatFieldError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", err.Field())
	case "priority":
		return fmt.Sprintf("field '%s' must be one of: %s", err.Field(), joinPriorities())
	case "assignee":
		return fmt.Sprintf("field '%s' must be one of: %s", err.Field(), joinAssignees())
	case "deadline":
		return "Deadline must be YYYY-MM-DD or empty"
	default:
		return fmt.Sprintf("field '%s' failed validation: %s", err.Field(), err.Tag())
	}
}

func registerTaskValidators(v *validator.Validate) {
	v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return models.Priority(fl.Field().String()).Valid()
	})

	v.RegisterValidation("assignee", func(fl validator.FieldLevel) bool {
		return models.Assignee(fl.Field().String()).Valid()
	})

	// Only the length is checked; the sheet stores the deadline as text.
	v.RegisterValidation("deadline", func(fl validator.FieldLevel) bool {
		n := utf8.RuneCountInString(fl.Field().String())
		return n == 0 || n == models.DeadlineLength
	})
}

func joinPriorities() string {
	names := make([]string, len(models.Priorities))
	for i, p := range models.Priorities {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func joinAssignees() string {
	names := make([]string, len(models.Assignees))
	for i, a := range models.Assignees {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}
