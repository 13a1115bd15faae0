package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "todo/internal/errors"
	"todo/internal/validation"
)

func titleRequired() *validation.ValidationError {
	ve := validation.NewValidationError()
	ve.AddRequiredError("title")
	return ve
}

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "Validation error",
			operation: "add task",
			err:       apperrors.NewValidationError("invalid input", nil),
			expected:  "failed to add task: invalid input",
		},
		{
			name:      "Validation error with field detail",
			operation: "add task",
			err:       apperrors.NewValidationError("invalid task", titleRequired()),
			expected:  "failed to add task: title is required",
		},
		{
			name:      "Bare validation error",
			operation: "add task",
			err:       titleRequired(),
			expected:  "failed to add task: title is required",
		},
		{
			name:      "Not found error",
			operation: "show task",
			err:       apperrors.NewNotFoundError("task", "123"),
			expected:  "failed to show task: task not found: 123",
		},
		{
			name:      "Storage error",
			operation: "add task",
			err:       apperrors.NewStorageError("save", errors.New("disk full")),
			expected:  "failed to add task: storage operation failed: save",
		},
		{
			name:      "Regular error",
			operation: "process",
			err:       errors.New("regular error"),
			expected:  "failed to process: regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, eh.Handle(tt.operation, tt.err), tt.expected)
		})
	}
}

func TestErrorHandler_HandleWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("boom")
	err := NewErrorHandler().Handle("process", cause)
	assert.ErrorIs(t, err, cause)
}

func TestErrorHandler_HandleNil(t *testing.T) {
	eh := NewErrorHandler()
	assert.NoError(t, eh.Handle("process", nil))
	assert.NoError(t, eh.HandleSimple(nil))
}

func TestErrorHandler_HandleSimple(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Invalid input error",
			err:      apperrors.NewInvalidInputError("id", "x", "must be a non-negative integer"),
			expected: "invalid input for id: must be a non-negative integer",
		},
		{
			name:     "Not found error",
			err:      apperrors.NewNotFoundError("task", "4"),
			expected: "task not found: 4",
		},
		{
			name:     "Timeout error",
			err:      apperrors.NewTimeoutError("save", "5s"),
			expected: "The operation timed out. Please try again.",
		},
		{
			name:     "Regular error",
			err:      errors.New("regular error"),
			expected: "regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, eh.HandleSimple(tt.err), tt.expected)
		})
	}
}

func TestErrorHandler_Classification(t *testing.T) {
	eh := NewErrorHandler()

	assert.True(t, eh.IsValidationError(titleRequired()))
	assert.True(t, eh.IsValidationError(apperrors.NewValidationError("x", nil)))
	assert.False(t, eh.IsValidationError(errors.New("x")))

	assert.True(t, eh.IsNotFoundError(apperrors.NewNotFoundError("task", "1")))
	assert.False(t, eh.IsNotFoundError(apperrors.NewValidationError("x", nil)))

	assert.True(t, eh.IsStorageError(apperrors.NewStorageError("save", nil)))
	assert.True(t, eh.IsStorageError(eh.Handle("add task", apperrors.NewStorageError("save", nil))))
	assert.True(t, eh.IsNotFoundError(eh.HandleSimple(apperrors.NewNotFoundError("task", "1"))))
}

func TestExitCode(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", eh.Handle("add task", apperrors.NewValidationError("invalid task", titleRequired())), ExitInvalidInput},
		{"bare validation", titleRequired(), ExitInvalidInput},
		{"invalid input", eh.HandleSimple(apperrors.NewInvalidInputError("id", "x", "must be a non-negative integer")), ExitInvalidInput},
		{"not found", eh.Handle("show task", apperrors.NewNotFoundError("task", "9")), ExitNotFound},
		{"storage", eh.Handle("open task list", apperrors.NewStorageError("open database", errors.New("locked"))), ExitStorage},
		{"other", errors.New("unknown command"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
