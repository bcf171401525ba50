package services

import "net/http"

// Stable error codes surfaced in the error body. storage_unavailable and
// generation_failed are deliberately distinct so operators can tell a dead
// database from a dead AI provider.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeUserNotFound       = "user_not_found"
	CodeStorageUnavailable = "storage_unavailable"
	CodeGenerationFailed   = "generation_failed"
	CodeInternalError      = "internal_error"
)

// APIError carries the HTTP status, machine code and user-facing message
// for a failed service call.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e == nil {
		return CodeInternalError
	}
	return e.ErrorCode
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func invalidRequestError(message string) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  CodeInvalidRequest,
		Message:    message,
	}
}

func storageError(cause error) *APIError {
	return &APIError{
		StatusCode: http.StatusServiceUnavailable,
		ErrorCode:  CodeStorageUnavailable,
		Message:    "ডাটাবেছৰ সৈতে সংযোগ কৰিব পৰা নগ'ল। (database unreachable, try again later)",
		Cause:      cause,
	}
}

func generationError(cause error) *APIError {
	return &APIError{
		StatusCode: http.StatusBadGateway,
		ErrorCode:  CodeGenerationFailed,
		Message:    "AI সেৱাৰ পৰা উত্তৰ পোৱা নগ'ল। (the AI provider rejected or failed the request)",
		Cause:      cause,
	}
}
