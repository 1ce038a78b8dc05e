package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
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

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. The code of a wrapped AppError is kept.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr == err {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error chain contains an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the outermost AppError code, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeComputationError = "COMPUTATION_ERROR"
	CodeDataLoadError    = "DATA_LOAD_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// Computation marks a failure inside a numerical routine
func Computation(cause error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    CodeComputationError,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// DataLoad marks a failure reading a dataset file
func DataLoad(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeDataLoadError,
		Message: fmt.Sprintf("failed to load dataset %s", path),
		Cause:   cause,
	}
}
