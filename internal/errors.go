package internal

import "fmt"

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeSession      ErrorType = "SESSION_ERROR"
	ErrorTypeStorage      ErrorType = "STORAGE_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	ErrCodeDocumentNotFound ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrCodeFolderNotFound   ErrorCode = "FOLDER_NOT_FOUND"
	ErrCodeTaskNotFound     ErrorCode = "TASK_NOT_FOUND"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeNotAuthenticated   ErrorCode = "NOT_AUTHENTICATED"

	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrCodeOutOfScope       ErrorCode = "OUT_OF_SCOPE"

	ErrCodeSessionExpired ErrorCode = "SESSION_EXPIRED"
	ErrCodeInvalidToken   ErrorCode = "INVALID_TOKEN"

	ErrCodeCorruptValue ErrorCode = "CORRUPT_STORED_VALUE"
	ErrCodeWriteFailed  ErrorCode = "WRITE_FAILED"
)

// AppError is the module-wide error shape. Nothing in the core panics:
// every failure is either an AppError surfaced to the caller or a
// degradation to an empty/logged-out state.
type AppError struct {
	Type    ErrorType `json:"type"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Code: ErrCodeValidationFailed, Message: message}
}

func NewNotFoundError(code ErrorCode, message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Code: code, Message: message}
}

func NewAuthenticationError(code ErrorCode, message string) *AppError {
	return &AppError{Type: ErrorTypeUnauthorized, Code: code, Message: message}
}

func NewForbiddenError(code ErrorCode, message string) *AppError {
	return &AppError{Type: ErrorTypeForbidden, Code: code, Message: message}
}

func NewSessionError(code ErrorCode, message string) *AppError {
	return &AppError{Type: ErrorTypeSession, Code: code, Message: message}
}

func NewStorageError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeStorage, Code: code, Message: message, Cause: cause}
}
