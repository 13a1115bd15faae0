package domain

import (
	"strings"
	"time"
)

// Task represents a task in the domain model.
// This is a pure domain model without storage-specific concerns.
type Task struct {
	ID          int64  `json:"id" yaml:"id" toml:"id"`
	Title       string `json:"title" yaml:"title" toml:"title"`
	Detail      string `json:"detail" yaml:"detail" toml:"detail"`
	Deadline    string `json:"deadline" yaml:"deadline" toml:"deadline"`
	IsCompleted bool   `json:"isCompleted" yaml:"isCompleted" toml:"isCompleted"`
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	return strings.TrimSpace(t.Title) != ""
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

// DeadlineTime parses the stored deadline. Date-only values are read as
// midnight in loc.
func (t Task) DeadlineTime(loc *time.Location) (time.Time, error) {
	return ParseDeadline(t.Deadline, loc)
}

// IsOverdue reports whether the task is incomplete and its deadline date is
// before the date of now. Time of day is ignored.
func (t Task) IsOverdue(now time.Time) bool {
	if t.IsCompleted {
		return false
	}
	deadline, err := t.DeadlineTime(now.Location())
	if err != nil {
		return false
	}
	return DaysUntil(deadline, now) < 0
}

// TaskInput carries user-entered values for a new task. Fields are raw text
// and are validated and parsed by the store.
type TaskInput struct {
	Title    string `json:"title" form:"title"`
	Detail   string `json:"detail" form:"detail"`
	Deadline string `json:"deadline" form:"deadline"`
}

// TaskPatch carries the fields to change on an existing task. Nil fields are
// left untouched.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Detail      *string `json:"detail,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
	IsCompleted *bool   `json:"isCompleted,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Detail == nil && p.Deadline == nil && p.IsCompleted == nil
}

// Apply returns a copy of t with the patch fields applied. The deadline is
// copied as given; callers normalize it first.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Detail != nil {
		t.Detail = *p.Detail
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	return t
}

// Collection is the ordered task list. Order is insertion order.
type Collection []Task

// Clone returns an independent copy of the collection.
func (c Collection) Clone() Collection {
	if c == nil {
		return Collection{}
	}
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// IndexOf returns the position of the task with id, or -1.
func (c Collection) IndexOf(id int64) int {
	for i, t := range c {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// NextID returns max(existing ids, -1) + 1.
func (c Collection) NextID() int64 {
	maxID := int64(-1)
	for _, t := range c {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}
