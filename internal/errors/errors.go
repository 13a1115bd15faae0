package errors

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is.
var (
	ErrValidation = &AppError{Type: ErrorTypeValidation, Code: CodeValidation}
	ErrNotFound   = &AppError{Type: ErrorTypeNotFound, Code: CodeNotFound}
	ErrStorage    = &AppError{Type: ErrorTypeStorage, Code: CodeStorage}
)

func newError(t ErrorType, message string, cause error, kv ...interface{}) *AppError {
	ctx := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		ctx[kv[i].(string)] = kv[i+1]
	}
	return &AppError{Type: t, Message: message, Code: types[t].code, Cause: cause, Context: ctx}
}

// NewValidationError reports a task that breaks a field rule. cause is
// usually a *validation.ValidationError listing the fields.
func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, message, cause)
}

// NewNotFoundError reports a missing resource, for example task 7.
func NewNotFoundError(resource string, identifier string) *AppError {
	return newError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", resource, identifier), nil,
		"resource", resource, "identifier", identifier)
}

// NewStorageError reports a failed load or save.
func NewStorageError(operation string, cause error) *AppError {
	return newError(ErrorTypeStorage, "storage operation failed: "+operation, cause,
		"operation", operation)
}

// NewInvalidInputError reports an unparseable argument such as a filter
// value or an id.
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return newError(ErrorTypeInvalidInput, fmt.Sprintf("invalid input for %s: %s", field, reason), nil,
		"field", field, "value", value, "reason", reason)
}

// NewTimeoutError reports an operation that ran past its deadline.
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return newError(ErrorTypeTimeout, "operation timed out: "+operation, nil,
		"operation", operation, "timeout", timeout)
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType reports whether err's chain holds an AppError of type t.
func IsErrorType(err error, t ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsType(t)
}

// GetUserMessage returns text fit to show a user. The cause is never
// included; a timeout gets a fixed explanation.
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	if !ok {
		return err.Error()
	}
	info, known := types[appErr.Type]
	switch {
	case !known:
		return "An unexpected error occurred. Please try again."
	case info.message != "":
		return info.message
	default:
		return appErr.Message
	}
}

// GetErrorCode returns the AppError code, or CodeUnknown.
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return CodeUnknown
}

// ShouldLogError is false for faults the user caused.
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return !types[appErr.Type].userFault
	}
	return true
}
