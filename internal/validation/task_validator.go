package validation

import (
	"todo/internal/domain"
)

// Field names reported in FieldError.
const (
	FieldID       = "id"
	FieldTitle    = "title"
	FieldDetail   = "detail"
	FieldDeadline = "deadline"
)

const deadlineFormatHint = "YYYY-MM-DD or RFC 3339 timestamp"

// TaskValidator validates task input coming from a view layer.
type TaskValidator struct {
	validator *Validator
}

func NewTaskValidator() *TaskValidator {
	return &TaskValidator{validator: NewValidator()}
}

// NewTaskValidatorWithLimits returns a validator enforcing limits.
func NewTaskValidatorWithLimits(limits Limits) *TaskValidator {
	return &TaskValidator{validator: NewValidatorWithLimits(limits)}
}

// ValidateTitle checks that title is present, single-line and within the
// length limits.
func (tv *TaskValidator) ValidateTitle(title string) error {
	ve := NewValidationError()
	trimmed := tv.validator.TrimAndValidateString(title)

	if !tv.validator.IsNonEmptyString(trimmed) {
		ve.AddRequiredError(FieldTitle)
		return ve
	}
	if !tv.validator.IsValidTitleLength(trimmed) {
		l := tv.validator.Limits()
		ve.AddInvalidLengthError(FieldTitle, trimmed, l.TitleMinLength, l.TitleMaxLength)
	}
	if tv.validator.HasControlCharacters(trimmed) {
		ve.AddInvalidValueError(FieldTitle, trimmed, "must be a single line")
	}
	return ve.OrNil()
}

func (tv *TaskValidator) ValidateDetail(detail string) error {
	ve := NewValidationError()
	if !tv.validator.IsValidDetailLength(detail) {
		ve.AddInvalidLengthError(FieldDetail, detail, 0, tv.validator.Limits().DetailMaxLength)
	}
	return ve.OrNil()
}

func (tv *TaskValidator) ValidateDeadline(deadline string) error {
	if tv.validator.IsValidDeadline(deadline) {
		return nil
	}
	ve := NewValidationError()
	ve.AddInvalidFormatError(FieldDeadline, deadline, deadlineFormatHint)
	return ve
}

// ValidateInput validates all fields of a new task.
func (tv *TaskValidator) ValidateInput(in domain.TaskInput) error {
	ve := NewValidationError()
	ve.Merge(tv.ValidateTitle(in.Title))
	ve.Merge(tv.ValidateDetail(in.Detail))
	ve.Merge(tv.ValidateDeadline(in.Deadline))
	return ve.OrNil()
}

// ValidatePatch validates only the fields the patch sets. A title set to
// blank is rejected like a blank title on creation.
func (tv *TaskValidator) ValidatePatch(p domain.TaskPatch) error {
	ve := NewValidationError()
	if p.Title != nil {
		ve.Merge(tv.ValidateTitle(*p.Title))
	}
	if p.Detail != nil {
		ve.Merge(tv.ValidateDetail(*p.Detail))
	}
	if p.Deadline != nil {
		ve.Merge(tv.ValidateDeadline(*p.Deadline))
	}
	return ve.OrNil()
}

// ValidateTaskID rejects ids that could never have been assigned.
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	if tv.validator.IsValidTaskID(id) {
		return nil
	}
	ve := NewValidationError()
	ve.AddInvalidValueError(FieldID, id, "must be zero or a positive integer")
	return ve
}
