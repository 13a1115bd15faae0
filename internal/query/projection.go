// Package query derives the displayed task sequence from the stored
// collection. Nothing here mutates its input.
package query

import (
	"slices"
	"strings"
	"time"

	"todo/internal/domain"
)

// Params selects and orders the projected tasks. The zero value shows every
// task in ascending deadline order.
type Params struct {
	Completion domain.CompletionFilter
	Deadline   domain.DeadlineFilter
	Sort       domain.SortOrder
	Search     string
}

// ParseParams builds Params from untyped view-layer text.
func ParseParams(status, due, sort, search string) (Params, error) {
	completion, err := domain.ParseCompletionFilter(status)
	if err != nil {
		return Params{}, err
	}
	deadline, err := domain.ParseDeadlineFilter(due)
	if err != nil {
		return Params{}, err
	}
	order, err := domain.ParseSortOrder(sort)
	if err != nil {
		return Params{}, err
	}
	return Params{Completion: completion, Deadline: deadline, Sort: order, Search: search}, nil
}

// Project applies, in order, the completion filter, the deadline filter, the
// search filter and a stable deadline sort. now fixes "today" and its
// location.
func Project(tasks []domain.Task, p Params, now time.Time) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesCompletion(t, p.Completion) &&
			matchesDeadline(t, p.Deadline, now) &&
			matchesSearch(t, p.Search) {
			out = append(out, t)
		}
	}
	sortByDeadline(out, p.Sort, now.Location())
	return out
}

func matchesCompletion(t domain.Task, f domain.CompletionFilter) bool {
	switch f {
	case domain.CompletionIncomplete:
		return !t.IsCompleted
	case domain.CompletionCompleted:
		return t.IsCompleted
	default:
		return true
	}
}

// matchesDeadline keeps tasks due within the filter's window. Only the upper
// bound applies, so overdue tasks pass every window.
func matchesDeadline(t domain.Task, f domain.DeadlineFilter, now time.Time) bool {
	maxDays, bounded := f.MaxDays()
	if !bounded {
		return true
	}
	deadline, err := t.DeadlineTime(now.Location())
	if err != nil {
		return false
	}
	return domain.DaysUntil(deadline, now) <= maxDays
}

// matchesSearch is a case-sensitive substring test on title or detail.
func matchesSearch(t domain.Task, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(t.Title, search) || strings.Contains(t.Detail, search)
}

// sortByDeadline orders by deadline instant. Ties keep their relative order
// in both directions; unparseable deadlines count as the zero instant.
func sortByDeadline(tasks []domain.Task, order domain.SortOrder, loc *time.Location) {
	type keyed struct {
		task domain.Task
		at   time.Time
	}
	entries := make([]keyed, len(tasks))
	for i, t := range tasks {
		d, err := t.DeadlineTime(loc)
		if err != nil {
			d = time.Time{}
		}
		entries[i] = keyed{task: t, at: d}
	}
	slices.SortStableFunc(entries, func(a, b keyed) int {
		c := a.at.Compare(b.at)
		if order == domain.SortDesc {
			return -c
		}
		return c
	})
	for i, e := range entries {
		tasks[i] = e.task
	}
}

// Counts reports how many tasks a projection shows out of the stored total.
type Counts struct {
	Shown int `json:"shown"`
	Total int `json:"total"`
}

// Count returns the counts for a projection of tasks.
func Count(projected, tasks []domain.Task) Counts {
	return Counts{Shown: len(projected), Total: len(tasks)}
}

// View is a projected task with its display state.
type View struct {
	domain.Task
	Overdue bool `json:"overdue"`
}

// Views annotates tasks with their overdue flag as of now.
func Views(tasks []domain.Task, now time.Time) []View {
	out := make([]View, len(tasks))
	for i, t := range tasks {
		out[i] = View{Task: t, Overdue: t.IsOverdue(now)}
	}
	return out
}
