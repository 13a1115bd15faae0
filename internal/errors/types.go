// Package errors defines the typed errors shared by the store, its
// persistence backends and the CLI and HTTP views.
package errors

// ErrorType is the category of an AppError. Views branch on it: the HTTP API
// picks a status code, the CLI picks a message.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeStorage      ErrorType = "storage"
	ErrorTypeInvalidInput ErrorType = "invalid_input"
	ErrorTypeTimeout      ErrorType = "timeout"
)

// Machine-readable codes reported to API clients.
const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeNotFound     = "NOT_FOUND"
	CodeStorage      = "STORAGE_ERROR"
	CodeInvalidInput = "INVALID_INPUT"
	CodeTimeout      = "TIMEOUT"
	CodeUnknown      = "UNKNOWN_ERROR"
)

type typeInfo struct {
	code string
	// userFault errors are caused by what the user typed and are not logged.
	userFault bool
	// message replaces the AppError message for display. Empty keeps it.
	message string
}

var types = map[ErrorType]typeInfo{
	ErrorTypeValidation:   {code: CodeValidation, userFault: true},
	ErrorTypeNotFound:     {code: CodeNotFound, userFault: true},
	ErrorTypeInvalidInput: {code: CodeInvalidInput, userFault: true},
	ErrorTypeStorage:      {code: CodeStorage},
	ErrorTypeTimeout:      {code: CodeTimeout, message: "The operation timed out. Please try again."},
}

// String returns the type name, or "unknown" for values outside the set.
func (t ErrorType) String() string {
	if _, ok := types[t]; ok {
		return string(t)
	}
	return "unknown"
}

// AppError carries a category, a stable code, a message fit for users and
// optional structured detail about the failing task or field.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Type.String() + ": " + e.Message
	}
	return e.Type.String() + ": " + e.Message + " (caused by: " + e.Cause.Error() + ")"
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code only, so the package sentinels work with
// errors.Is whatever the message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Type == t.Type && e.Code == t.Code
}

// IsType reports whether e belongs to category t.
func (e *AppError) IsType(t ErrorType) bool {
	return e.Type == t
}

// GetContext returns one piece of structured detail.
func (e *AppError) GetContext(key string) (interface{}, bool) {
	v, ok := e.Context[key]
	return v, ok
}
