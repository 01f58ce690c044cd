package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad ErrorCode = "CONFIG_LOAD"

	// Castle errors
	ErrCastleNotFound ErrorCode = "CASTLE_NOT_FOUND"
	ErrAlreadyCloned  ErrorCode = "ALREADY_CLONED"
	ErrMalformedURI   ErrorCode = "MALFORMED_URI"
	ErrVCS            ErrorCode = "VCS"

	// Overlay and tracking errors
	ErrLinkConflict     ErrorCode = "LINK_CONFLICT"
	ErrStaleTrackedFile ErrorCode = "STALE_TRACKED_FILE"

	// Manifest errors
	ErrManifestRead  ErrorCode = "MANIFEST_READ"
	ErrManifestWrite ErrorCode = "MANIFEST_WRITE"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileMove      ErrorCode = "FILE_MOVE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
)

// HomesickError represents a structured error with code and details
type HomesickError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *HomesickError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *HomesickError) Unwrap() error {
	return e.Wrapped
}

// Is matches any HomesickError carrying the same code
func (e *HomesickError) Is(target error) bool {
	var targetErr *HomesickError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new HomesickError with the given code and message
func New(code ErrorCode, message string) *HomesickError {
	return &HomesickError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new HomesickError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *HomesickError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error. Returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *HomesickError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *HomesickError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *HomesickError) WithDetail(key string, value interface{}) *HomesickError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var homesickErr *HomesickError
	if errors.As(err, &homesickErr) {
		return homesickErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a HomesickError
func GetErrorCode(err error) ErrorCode {
	var homesickErr *HomesickError
	if errors.As(err, &homesickErr) {
		return homesickErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a HomesickError
func GetErrorDetails(err error) map[string]interface{} {
	var homesickErr *HomesickError
	if errors.As(err, &homesickErr) {
		return homesickErr.Details
	}
	return nil
}
