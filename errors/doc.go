// Package errors provides the application error type used across services.
//
// An AppError carries a machine-readable code, a message and the HTTP status
// fields (statusCode, statusMessage, data) that framework error handlers look
// for, so every AppError normalizes as a framework error.
package errors
