package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error. The auth-facing codes
// form a closed taxonomy: every credential-provider or storage failure is
// mapped into one of them before reaching any caller, and unmapped failures
// fall back to ErrCodeUnknown with a safe message.
type ErrorCode string

const (
	// ErrCodeNoProfileFound indicates no role record exists for the subject.
	ErrCodeNoProfileFound ErrorCode = "no_profile_found"
	// ErrCodeRoleMismatch indicates the resolved role differs from the role
	// required by the login surface. Carries the actual role.
	ErrCodeRoleMismatch ErrorCode = "role_mismatch"
	// ErrCodeInvalidCredential indicates a failed password check.
	ErrCodeInvalidCredential ErrorCode = "invalid_credential"
	// ErrCodeTooManyAttempts indicates the credential store throttled or
	// locked the account.
	ErrCodeTooManyAttempts ErrorCode = "too_many_attempts"
	// ErrCodeNetworkError indicates the credential store or role directory
	// was unreachable.
	ErrCodeNetworkError ErrorCode = "network_error"
	// ErrCodeMalformedSession indicates a session payload failed structural
	// validation. Internal; auto-recovered by clearing both stores.
	ErrCodeMalformedSession ErrorCode = "malformed_session"
	// ErrCodeUnknown is the fallback for unmapped provider failures.
	ErrCodeUnknown ErrorCode = "unknown"

	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique
	// constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message, and
// optional cause. It supports error wrapping and unwrapping for use with
// errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable, provider-agnostic error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// ActualRole carries the resolved role on role_mismatch errors so callers
	// can suggest the correct login surface
	ActualRole string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NoProfileFound creates a new NoProfileFound error.
func NoProfileFound(message string) *AppError {
	return &AppError{Code: ErrCodeNoProfileFound, Message: message}
}

// RoleMismatch creates a role_mismatch error carrying the actual role.
func RoleMismatch(actualRole, message string) *AppError {
	return &AppError{Code: ErrCodeRoleMismatch, Message: message, ActualRole: actualRole}
}

// InvalidCredential creates a new InvalidCredential error.
func InvalidCredential(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidCredential, Message: message}
}

// TooManyAttempts creates a new TooManyAttempts error.
func TooManyAttempts(message string) *AppError {
	return &AppError{Code: ErrCodeTooManyAttempts, Message: message}
}

// NetworkError creates a new NetworkError error.
func NetworkError(message string) *AppError {
	return &AppError{Code: ErrCodeNetworkError, Message: message}
}

// MalformedSession creates a new MalformedSession error.
func MalformedSession(message string) *AppError {
	return &AppError{Code: ErrCodeMalformedSession, Message: message}
}

// Unknown creates a new Unknown error with a safe message.
func Unknown(message string) *AppError {
	return &AppError{Code: ErrCodeUnknown, Message: message}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNoProfileFound checks if an error is a NoProfileFound error.
func IsNoProfileFound(err error) bool { return isCode(err, ErrCodeNoProfileFound) }

// IsRoleMismatch checks if an error is a RoleMismatch error.
func IsRoleMismatch(err error) bool { return isCode(err, ErrCodeRoleMismatch) }

// IsInvalidCredential checks if an error is an InvalidCredential error.
func IsInvalidCredential(err error) bool { return isCode(err, ErrCodeInvalidCredential) }

// IsTooManyAttempts checks if an error is a TooManyAttempts error.
func IsTooManyAttempts(err error) bool { return isCode(err, ErrCodeTooManyAttempts) }

// IsNetworkError checks if an error is a NetworkError error.
func IsNetworkError(err error) bool { return isCode(err, ErrCodeNetworkError) }

// IsMalformedSession checks if an error is a MalformedSession error.
func IsMalformedSession(err error) bool { return isCode(err, ErrCodeMalformedSession) }

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetActualRole returns the ActualRole carried by a role_mismatch error, or
// empty string when absent.
func GetActualRole(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ActualRole
	}
	return ""
}
