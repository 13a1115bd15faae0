package validation

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"todo/internal/domain"
)

// Default length limits, counted in runes after trimming.
const (
	DefaultTitleMinLength  = 1
	DefaultTitleMaxLength  = 255
	DefaultDetailMaxLength = 4000
)

// Limits bounds the length of free-text task fields. Zero values fall back
// to the defaults.
type Limits struct {
	TitleMinLength  int
	TitleMaxLength  int
	DetailMaxLength int
}

// DefaultLimits returns the limits used when no configuration is given.
func DefaultLimits() Limits {
	return Limits{
		TitleMinLength:  DefaultTitleMinLength,
		TitleMaxLength:  DefaultTitleMaxLength,
		DetailMaxLength: DefaultDetailMaxLength,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.TitleMinLength <= 0 {
		l.TitleMinLength = d.TitleMinLength
	}
	if l.TitleMaxLength <= 0 {
		l.TitleMaxLength = d.TitleMaxLength
	}
	if l.DetailMaxLength <= 0 {
		l.DetailMaxLength = d.DetailMaxLength
	}
	return l
}

// Validator provides the primitive checks used by TaskValidator.
type Validator struct {
	limits Limits
}

func NewValidator() *Validator {
	return &Validator{limits: DefaultLimits()}
}

// NewValidatorWithLimits returns a validator using limits, with zero fields
// replaced by defaults.
func NewValidatorWithLimits(limits Limits) *Validator {
	return &Validator{limits: limits.withDefaults()}
}

// Limits returns the effective limits.
func (v *Validator) Limits() Limits { return v.limits }

// IsNonEmptyString checks if a string is not empty after trimming whitespace.
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks the trimmed rune count against [min, max].
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= min && n <= max
}

func (v *Validator) IsValidTitleLength(title string) bool {
	return v.IsValidStringLength(title, v.limits.TitleMinLength, v.limits.TitleMaxLength)
}

func (v *Validator) IsValidDetailLength(detail string) bool {
	return v.IsValidStringLength(detail, 0, v.limits.DetailMaxLength)
}

// HasControlCharacters reports line breaks, tabs and other control runes.
// Titles are single-line; details may span lines.
func (v *Validator) HasControlCharacters(s string) bool {
	return strings.ContainsFunc(s, unicode.IsControl)
}

// IsValidDeadline reports whether s parses as a date or timestamp. Blank
// input is valid and means "now".
func (v *Validator) IsValidDeadline(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	_, err := domain.ParseDeadline(s, time.Local)
	return err == nil
}

// IsValidTaskID checks that id could have been assigned. Ids start at 0.
func (v *Validator) IsValidTaskID(id int64) bool {
	return id >= 0
}

func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}
