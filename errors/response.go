package errors

import (
	stderrors "errors"
	"net/http"
)

// ErrorResponse is the JSON body returned to clients.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody uses the canonical normalized field names so clients can feed
// it straight back into an error handler.
type ErrorBody struct {
	Code          ErrorCode `json:"code"`
	Message       string    `json:"message"`
	StatusCode    int       `json:"statusCode"`
	StatusMessage string    `json:"statusMessage"`
	Data          any       `json:"data,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	statusMessage := e.StatusMessage
	if statusMessage == "" {
		statusMessage = http.StatusText(e.StatusCode)
	}
	return ErrorResponse{
		Error: ErrorBody{
			Code:          e.Code,
			Message:       e.Message,
			StatusCode:    e.StatusCode,
			StatusMessage: statusMessage,
			Data:          e.Data,
		},
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
