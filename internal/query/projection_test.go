package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/domain"
)

// 2024-01-05 afternoon, UTC.
var now = time.Date(2024, 1, 5, 15, 0, 0, 0, time.UTC)

func ids(tasks []domain.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestProject_IncompleteAscending(t *testing.T) {
	tasks := []domain.Task{
		{ID: 0, Title: "A", Deadline: "2024-01-10", IsCompleted: false},
		{ID: 1, Title: "B", Deadline: "2024-01-05", IsCompleted: true},
	}

	got := Project(tasks, Params{Completion: domain.CompletionIncomplete, Sort: domain.SortAsc}, now)
	assert.Equal(t, []int64{0}, ids(got))
}

func TestProject_Search(t *testing.T) {
	tasks := []domain.Task{
		{ID: 0, Title: "Buy milk", Deadline: "2024-01-05"},
		{ID: 1, Title: "Walk dog", Deadline: "2024-01-05"},
	}

	assert.Equal(t, []int64{0}, ids(Project(tasks, Params{Search: "milk"}, now)))
}

func TestProject_SearchMatchesDetailCaseSensitively(t *testing.T) {
	tasks := []domain.Task{
		{ID: 0, Title: "Shopping", Detail: "milk, eggs", Deadline: "2024-01-05"},
		{ID: 1, Title: "MILK run", Deadline: "2024-01-05"},
		{ID: 2, Title: "Walk dog", Deadline: "2024-01-05"},
	}

	assert.Equal(t, []int64{0}, ids(Project(tasks, Params{Search: "milk"}, now)))
	assert.Equal(t, []int64{1}, ids(Project(tasks, Params{Search: "MILK"}, now)))
}

func TestProject_CompletionFilters(t *testing.T) {
	tasks := []domain.Task{
		{ID: 0, Title: "a", Deadline: "2024-01-05"},
		{ID: 1, Title: "b", Deadline: "2024-01-05", IsCompleted: true},
	}

	assert.Equal(t, []int64{0, 1}, ids(Project(tasks, Params{Completion: domain.CompletionAll}, now)))
	assert.Equal(t, []int64{0}, ids(Project(tasks, Params{Completion: domain.CompletionIncomplete}, now)))
	assert.Equal(t, []int64{1}, ids(Project(tasks, Params{Completion: domain.CompletionCompleted}, now)))
}

func TestProject_DeadlineWindows(t *testing.T) {
	tasks := []domain.Task{
		{ID: 0, Title: "overdue", Deadline: "2023-12-01"},
		{ID: 1, Title: "today late", Deadline: "2024-01-05T23:59:00Z"},
		{ID: 2, Title: "tomorrow", Deadline: "2024-01-06"},
		{ID: 3, Title: "in 7 days", Deadline: "2024-01-12"},
		{ID: 4, Title: "in 8 days", Deadline: "2024-01-13"},
		{ID: 5, Title: "in 30 days", Deadline: "2024-02-04"},
		{ID: 6, Title: "in 31 days", Deadline: "2024-02-05"},
		{ID: 7, Title: "garbage", Deadline: "someday"},
	}

	tests := []struct {
		filter domain.DeadlineFilter
		want   []int64
	}{
		{domain.DeadlineAll, []int64{7, 0, 1, 2, 3, 4, 5, 6}},
		{domain.DeadlineToday, []int64{0, 1}},
		{domain.DeadlineWeek, []int64{0, 1, 2, 3}},
		{domain.DeadlineMonth, []int64{0, 1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			got := Project(tasks, Params{Deadline: tt.filter}, now)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestProject_DeadlineUsesCalendarDays(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 00:30 on Jan 6 in Tokyo is still Jan 5 in UTC.
	lateNight := time.Date(2024, 1, 6, 0, 30, 0, 0, tokyo)
	tasks := []domain.Task{{ID: 0, Title: "x", Deadline: "2024-01-06T08:00:00+09:00"}}

	assert.Len(t, Project(tasks, Params{Deadline: domain.DeadlineToday}, lateNight), 1)
	assert.Empty(t, Project(tasks, Params{Deadline: domain.DeadlineToday}, lateNight.AddDate(0, 0, -1)))
}

func TestProject_StableSortBothDirections(t *testing.T) {
	tasks := []domain.Task{
		{ID: 0, Title: "late", Deadline: "2024-01-20T00:00:00Z"},
		{ID: 1, Title: "tie first", Deadline: "2024-01-10T00:00:00Z"},
		{ID: 2, Title: "early", Deadline: "2024-01-01T00:00:00Z"},
		{ID: 3, Title: "tie second", Deadline: "2024-01-10"},
	}
	utc := now.UTC()

	assert.Equal(t, []int64{2, 1, 3, 0}, ids(Project(tasks, Params{Sort: domain.SortAsc}, utc)))
	assert.Equal(t, []int64{0, 1, 3, 2}, ids(Project(tasks, Params{Sort: domain.SortDesc}, utc)))
}

func TestProject_SortsByInstantNotText(t *testing.T) {
	tasks := []domain.Task{
		{ID: 0, Title: "a", Deadline: "2024-01-10T09:00:00+09:00"}, // 00:00Z
		{ID: 1, Title: "b", Deadline: "2024-01-09T23:00:00-02:00"}, // 01:00Z on the 10th
	}
	assert.Equal(t, []int64{0, 1}, ids(Project(tasks, Params{}, now)))
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	tasks := []domain.Task{
		{ID: 0, Title: "b", Deadline: "2024-01-20"},
		{ID: 1, Title: "a", Deadline: "2024-01-01"},
	}
	original := append([]domain.Task{}, tasks...)

	_ = Project(tasks, Params{Sort: domain.SortAsc}, now)
	assert.Equal(t, original, tasks)
}

func TestProject_Idempotent(t *testing.T) {
	tasks := []domain.Task{
		{ID: 0, Title: "Buy milk", Deadline: "2024-01-07"},
		{ID: 1, Title: "Walk dog", Deadline: "2024-01-02", IsCompleted: true},
		{ID: 2, Title: "milk again", Deadline: "2024-01-07"},
	}
	p := Params{Deadline: domain.DeadlineWeek, Sort: domain.SortDesc, Search: "milk"}

	first := Project(tasks, p, now)
	second := Project(tasks, p, now)
	assert.Equal(t, first, second)
	assert.Equal(t, first, Project(first, p, now), "projecting a projection changes nothing")
}

func TestProject_EmptyInput(t *testing.T) {
	got := Project(nil, Params{}, now)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams("completed", "week", "desc", "milk")
	require.NoError(t, err)
	assert.Equal(t, Params{
		Completion: domain.CompletionCompleted,
		Deadline:   domain.DeadlineWeek,
		Sort:       domain.SortDesc,
		Search:     "milk",
	}, p)

	p, err = ParseParams("", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, Params{}, p)

	_, err = ParseParams("done", "", "", "")
	assert.Error(t, err)
	_, err = ParseParams("", "year", "", "")
	assert.Error(t, err)
	_, err = ParseParams("", "", "up", "")
	assert.Error(t, err)
}

func TestCountAndViews(t *testing.T) {
	tasks := []domain.Task{
		{ID: 0, Title: "late", Deadline: "2024-01-04"},
		{ID: 1, Title: "late but done", Deadline: "2024-01-04", IsCompleted: true},
		{ID: 2, Title: "today", Deadline: "2024-01-05T00:00:00Z"},
	}
	projected := Project(tasks, Params{Completion: domain.CompletionIncomplete}, now)

	assert.Equal(t, Counts{Shown: 2, Total: 3}, Count(projected, tasks))

	views := Views(projected, now)
	require.Len(t, views, 2)
	assert.True(t, views[0].Overdue)
	assert.False(t, views[1].Overdue, "due today is not overdue")
}
