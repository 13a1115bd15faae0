package cli

import (
	"fmt"

	"todo/internal/errors"
	"todo/internal/validation"
)

// Process exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitInvalidInput = 2
	ExitNotFound     = 3
	ExitStorage      = 4
)

// commandError shows a user message while keeping the original error in the
// chain for ExitCode.
type commandError struct {
	msg string
	err error
}

func (e *commandError) Error() string { return e.msg }
func (e *commandError) Unwrap() error { return e.err }

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	if msg, ok := userMessage(err); ok {
		return &commandError{msg: fmt.Sprintf("failed to %s: %s", operation, msg), err: err}
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	if msg, ok := userMessage(err); ok {
		return &commandError{msg: msg, err: err}
	}
	return err
}

// userMessage prefers field-level validation detail over the wrapping
// AppError's summary.
func userMessage(err error) (string, bool) {
	if ve, ok := err.(*validation.ValidationError); ok {
		return ve.GetUserFriendlyMessage(), true
	}
	if appErr, ok := errors.AsAppError(err); ok {
		if ve, ok := appErr.Cause.(*validation.ValidationError); ok {
			return ve.GetUserFriendlyMessage(), true
		}
		return errors.GetUserMessage(err), true
	}
	return "", false
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsStorageError checks if an error came from the persistence layer
func (eh *ErrorHandler) IsStorageError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeStorage)
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	eh := NewErrorHandler()
	switch {
	case err == nil:
		return ExitSuccess
	case eh.IsValidationError(err), errors.IsErrorType(err, errors.ErrorTypeInvalidInput):
		return ExitInvalidInput
	case eh.IsNotFoundError(err):
		return ExitNotFound
	case eh.IsStorageError(err):
		return ExitStorage
	}
	return ExitFailure
}
