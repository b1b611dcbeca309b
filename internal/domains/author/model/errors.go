package model

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// Validation Errors
	ErrValidation = errors.New("author validation failed")
	ErrInvalidID  = errors.New("invalid author id")

	// Business Rule Errors
	ErrAuthorNotFound  = errors.New("author not found")
	ErrVersionMismatch = errors.New("author version mismatch - conflict detected")

	// Bulk
	ErrBatchTooLarge  = errors.New("batch size exceeds maximum")
	ErrImportTooLarge = errors.New("import file exceeds row limit")
)

// ValidationError reports which fields were missing, malformed or too long.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	fields validation.Errors
}

// NewValidationError converts the result of an ozzo validation into a
// *ValidationError. nil stays nil and internal ozzo errors pass through.
func NewValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		return &ValidationError{fields: errs}
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}
	return &ValidationError{fields: validation.Errors{"_": err}}
}

// FieldError builds a ValidationError for a single field.
func FieldError(field, message string) *ValidationError {
	return &ValidationError{fields: validation.Errors{field: errors.New(message)}}
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + e.fields.Error()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Fields maps each offending field to its message.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for field, err := range e.fields {
		out[field] = err.Error()
	}
	return out
}

// FieldNames lists the offending fields in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.fields))
	for field := range e.fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return names
}

// HasField reports whether field failed validation.
func (e *ValidationError) HasField(field string) bool {
	_, ok := e.fields[field]
	return ok
}

// ErrorResponse represents API error response format
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return "AUTHOR_NOT_FOUND"
	case errors.Is(err, ErrVersionMismatch):
		return "VERSION_CONFLICT"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrInvalidID):
		return "INVALID_ID"
	case errors.Is(err, ErrBatchTooLarge), errors.Is(err, ErrImportTooLarge):
		return "PAYLOAD_TOO_LARGE"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrVersionMismatch):
		return http.StatusConflict
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrBatchTooLarge), errors.Is(err, ErrImportTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ToErrorResponse builds the API error body, with field details for
// validation failures.
func ToErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Code: ToErrorCode(err), Message: err.Error()}
	var verr *ValidationError
	if errors.As(err, &verr) {
		resp.Message = "validation failed on: " + strings.Join(verr.FieldNames(), ", ")
		resp.Details = verr.Fields()
	}
	if resp.Code == "INTERNAL_ERROR" {
		resp.Message = "internal server error"
	}
	return resp
}
