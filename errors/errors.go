package errors

import (
	"fmt"
	"maps"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// StatusCode is the HTTP status code for this error.
	StatusCode int `json:"statusCode"`
	// StatusMessage overrides the HTTP status text shown to clients.
	StatusMessage string `json:"statusMessage,omitempty"`
	// Data is an opaque payload for the client (field errors, details).
	Data any `json:"data,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithData replaces the payload and returns the receiver.
func (e *AppError) WithData(data any) *AppError {
	e.Data = data
	return e
}

// WithStatusMessage sets the status message and returns the receiver.
func (e *AppError) WithStatusMessage(msg string) *AppError {
	e.StatusMessage = msg
	return e
}

// WithDetail sets a single key on a map payload and returns the receiver.
// A nil payload becomes a map; a non-map payload is left untouched.
func (e *AppError) WithDetail(key string, value any) *AppError {
	switch d := e.Data.(type) {
	case nil:
		e.Data = map[string]any{key: value}
	case map[string]any:
		d[key] = value
	}
	return e
}

// WithDetails merges details into a map payload, like WithDetail.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	switch d := e.Data.(type) {
	case nil:
		m := make(map[string]any, len(details))
		maps.Copy(m, details)
		e.Data = m
	case map[string]any:
		maps.Copy(d, details)
	}
	return e
}

// Details returns the payload when it is a map.
func (e *AppError) Details() map[string]any {
	d, _ := e.Data.(map[string]any)
	return d
}

// New creates a new AppError.
func New(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// FromStatus creates an AppError from a status code alone. The status message
// defaults to the standard HTTP status text and doubles as the message.
func FromStatus(statusCode int, statusMessage string) *AppError {
	if statusMessage == "" {
		statusMessage = http.StatusText(statusCode)
	}
	return &AppError{
		Code:          CodeForStatus(statusCode),
		Message:       statusMessage,
		StatusCode:    statusCode,
		StatusMessage: statusMessage,
	}
}

// Wrap converts any error into an AppError. AppErrors anywhere in the chain
// are returned as is; anything else becomes an internal error.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// --- Common Error Constructors ---

// ServiceUnavailable creates a new AppError for a service that is temporarily unavailable.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		StatusCode: http.StatusServiceUnavailable,
		Data:       map[string]any{"service": service},
	}
}

// ConnectionFailed creates a new AppError for a failed connection to a service.
func ConnectionFailed(service string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Unable to connect to %s. Please verify the service is running.", service),
		StatusCode: http.StatusServiceUnavailable,
		Data:       map[string]any{"service": service},
	}
}

// Timeout creates a new AppError for a request that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long. Please try again.",
		StatusCode: http.StatusGatewayTimeout,
		Data:       map[string]any{"operation": operation},
	}
}

// RateLimited creates a new AppError for too many requests.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many requests. Please wait a moment and try again.",
		StatusCode: http.StatusTooManyRequests,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	data := map[string]any{"resource": resource}
	if id != "" {
		data["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		StatusCode: http.StatusNotFound, Data: data,
	}
}

// FormatResourceError is NotFound for ids of any printable type.
func FormatResourceError(resource string, id any) *AppError {
	return NotFound(resource, fmt.Sprint(id))
}

// AlreadyExists creates a new AppError for a resource that already exists.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with these details already exists.", resource),
		StatusCode: http.StatusConflict,
		Data:       map[string]any{"resource": resource},
	}
}

// Conflict creates a new AppError for a conflict with the current state of the resource.
func Conflict(reason string) *AppError {
	return &AppError{
		Code: ErrCodeConflict, Message: reason,
		StatusCode: http.StatusConflict,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	var data map[string]any
	if field != "" {
		data = map[string]any{"field": field}
	}
	e := &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		StatusCode: http.StatusBadRequest,
	}
	if data != nil {
		e.Data = data
	}
	return e
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		StatusCode: http.StatusBadRequest,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		StatusCode: http.StatusBadRequest,
		Data:       map[string]any{"field": field},
	}
}

// InvalidFormat creates a new AppError for an invalid field format.
func InvalidFormat(field, expectedFormat string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidFormat, Message: fmt.Sprintf("Invalid format for %s. Expected: %s", field, expectedFormat),
		StatusCode: http.StatusBadRequest,
		Data:       map[string]any{"field": field, "expected_format": expectedFormat},
	}
}

// Unauthorized creates a new AppError for unauthorized access.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		StatusCode: http.StatusUnauthorized,
	}
}

// Forbidden creates a new AppError for forbidden access.
func Forbidden(reason string) *AppError {
	if reason == "" {
		reason = "You don't have permission to perform this action."
	}
	return &AppError{
		Code: ErrCodeForbidden, Message: reason,
		StatusCode: http.StatusForbidden,
	}
}

// TokenExpired creates a new AppError for an expired authentication token.
func TokenExpired() *AppError {
	return &AppError{
		Code: ErrCodeTokenExpired, Message: "Your session has expired. Please log in again.",
		StatusCode: http.StatusUnauthorized,
	}
}

// InvalidToken creates a new AppError for an invalid authentication token.
func InvalidToken() *AppError {
	return &AppError{
		Code: ErrCodeInvalidToken, Message: "Invalid authentication token. Please log in again.",
		StatusCode: http.StatusUnauthorized,
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		StatusCode: http.StatusInternalServerError, Cause: cause,
	}
}

// ExternalServiceError creates a new AppError for an error from an external service.
func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExternalService, Message: fmt.Sprintf("The %s service encountered an error. Please try again.", service),
		StatusCode: http.StatusBadGateway,
		Data:       map[string]any{"service": service}, Cause: cause,
	}
}
