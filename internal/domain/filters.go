package domain

import (
	"fmt"
	"strings"

	"todo/internal/errors"
)

// CompletionFilter selects tasks by completion state.
type CompletionFilter int

const (
	CompletionAll CompletionFilter = iota
	CompletionIncomplete
	CompletionCompleted
)

func (f CompletionFilter) String() string {
	switch f {
	case CompletionAll:
		return "all"
	case CompletionIncomplete:
		return "incomplete"
	case CompletionCompleted:
		return "completed"
	default:
		return fmt.Sprintf("CompletionFilter(%d)", int(f))
	}
}

// ParseCompletionFilter parses "all", "incomplete" or "completed". Empty input
// means all.
func ParseCompletionFilter(s string) (CompletionFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return CompletionAll, nil
	case "incomplete":
		return CompletionIncomplete, nil
	case "completed":
		return CompletionCompleted, nil
	}
	return CompletionAll, errors.NewInvalidInputError("status", s, "want all, incomplete or completed")
}

// MarshalText implements encoding.TextMarshaler.
func (f CompletionFilter) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *CompletionFilter) UnmarshalText(b []byte) error {
	v, err := ParseCompletionFilter(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// DeadlineFilter selects tasks by how soon they are due.
type DeadlineFilter int

const (
	DeadlineAll DeadlineFilter = iota
	DeadlineToday
	DeadlineWeek
	DeadlineMonth
)

func (f DeadlineFilter) String() string {
	switch f {
	case DeadlineAll:
		return "all"
	case DeadlineToday:
		return "today"
	case DeadlineWeek:
		return "week"
	case DeadlineMonth:
		return "month"
	default:
		return fmt.Sprintf("DeadlineFilter(%d)", int(f))
	}
}

// MaxDays is the inclusive upper bound on days-until-due for the filter.
// The bound is one-sided: overdue tasks pass every filter.
func (f DeadlineFilter) MaxDays() (int, bool) {
	switch f {
	case DeadlineToday:
		return 0, true
	case DeadlineWeek:
		return 7, true
	case DeadlineMonth:
		return 30, true
	default:
		return 0, false
	}
}

// ParseDeadlineFilter parses "all", "today", "week" or "month".
func ParseDeadlineFilter(s string) (DeadlineFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return DeadlineAll, nil
	case "today":
		return DeadlineToday, nil
	case "week":
		return DeadlineWeek, nil
	case "month":
		return DeadlineMonth, nil
	}
	return DeadlineAll, errors.NewInvalidInputError("due", s, "want all, today, week or month")
}

// MarshalText implements encoding.TextMarshaler.
func (f DeadlineFilter) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *DeadlineFilter) UnmarshalText(b []byte) error {
	v, err := ParseDeadlineFilter(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// SortOrder orders the view by deadline.
type SortOrder int

const (
	SortAsc SortOrder = iota
	SortDesc
)

func (o SortOrder) String() string {
	switch o {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return fmt.Sprintf("SortOrder(%d)", int(o))
	}
}

// ParseSortOrder parses "asc" or "desc". Empty input means asc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	}
	return SortAsc, errors.NewInvalidInputError("sort", s, "want asc or desc")
}

// MarshalText implements encoding.TextMarshaler.
func (o SortOrder) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *SortOrder) UnmarshalText(b []byte) error {
	v, err := ParseSortOrder(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
