package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"sarpras/pkg/client"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeTimeout      = "TIMEOUT"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInvalidInput = "INVALID_INPUT"
	CodeBackend      = "BACKEND_ERROR"
	CodeRateLimited  = "RATE_LIMITED"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func Validation(message string, details map[string]any) *AppError {
	return New(CodeValidation, message, http.StatusUnprocessableEntity).WithDetails(details)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

func Internal(message string, err error) *AppError {
	return Wrap(err, CodeInternal, message, http.StatusInternalServerError)
}

func Timeout(message string) *AppError {
	return New(CodeTimeout, message, http.StatusGatewayTimeout)
}

func Unavailable(service string) *AppError {
	return New(CodeUnavailable, fmt.Sprintf("%s is temporarily unavailable", service), http.StatusServiceUnavailable)
}

func RateLimited(message string) *AppError {
	return New(CodeRateLimited, message, http.StatusTooManyRequests)
}

// FromBackend maps a campus backend failure onto the error the browser sees.
// 4xx answers keep their status and message; 5xx and transport failures
// become 502/504 with retryable set in details.
func FromBackend(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, client.ErrUnauthorized) {
		return Wrap(err, CodeUnauthorized, "Sesi berakhir, silakan masuk kembali", http.StatusUnauthorized).
			WithDetails(map[string]any{"redirect": "/sign-in"})
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, CodeTimeout, "Backend did not answer in time", http.StatusGatewayTimeout).
			WithDetails(map[string]any{"retryable": true})
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		retry := map[string]any{"retryable": apiErr.Retryable()}
		switch {
		case apiErr.Status == http.StatusNotFound:
			return Wrap(err, CodeNotFound, apiErr.Message, http.StatusNotFound)
		case apiErr.Status == http.StatusConflict:
			return Wrap(err, CodeConflict, apiErr.Message, http.StatusConflict)
		case apiErr.Status == http.StatusForbidden:
			return Wrap(err, CodeForbidden, apiErr.Message, http.StatusForbidden)
		case apiErr.Status == http.StatusUnprocessableEntity:
			return Wrap(err, CodeValidation, apiErr.Message, http.StatusUnprocessableEntity)
		case apiErr.Status == http.StatusTooManyRequests:
			return Wrap(err, CodeRateLimited, apiErr.Message, http.StatusTooManyRequests).WithDetails(retry)
		case apiErr.Status < http.StatusInternalServerError:
			return Wrap(err, CodeInvalidInput, apiErr.Message, http.StatusBadRequest)
		default:
			return Wrap(err, CodeBackend, apiErr.Message, http.StatusBadGateway).WithDetails(retry)
		}
	}

	var tErr *client.TransportError
	if errors.As(err, &tErr) {
		return Wrap(err, CodeUnavailable, "Backend is temporarily unavailable", http.StatusBadGateway).
			WithDetails(map[string]any{"retryable": true})
	}

	return Internal("An unexpected error occurred", err)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return FromBackend(err)
}
