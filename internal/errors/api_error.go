package errors

import "net/http"

type APIError struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func New(status int, code, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func Internal(message string) *APIError {
	if message == "" {
		message = "internal server error"
	}
	return New(http.StatusInternalServerError, "internal_error", message)
}

func BadRequest(code, message string) *APIError {
	return New(http.StatusBadRequest, code, message)
}

// Validation marks input that must never reach storage: missing category,
// non-positive minutes, unknown instrument.
func Validation(message string) *APIError {
	return New(http.StatusBadRequest, "validation_failed", message)
}

func Unauthorized(message string) *APIError {
	if message == "" {
		message = "unauthorized"
	}
	return New(http.StatusUnauthorized, "unauthorized", message)
}

func NotFound(code, message string) *APIError {
	return New(http.StatusNotFound, code, message)
}

func Conflict(code, message string, details interface{}) *APIError {
	err := New(http.StatusConflict, code, message)
	err.Details = details
	return err
}

// DataWrite covers store failures during save; the caller's prior state is
// left intact and the message is safe to show to the user.
func DataWrite(message string) *APIError {
	if message == "" {
		message = "failed to save data"
	}
	return New(http.StatusInternalServerError, "data_write_failed", message)
}

func DataFetch(message string) *APIError {
	if message == "" {
		message = "failed to load data"
	}
	return New(http.StatusInternalServerError, "data_fetch_failed", message)
}
