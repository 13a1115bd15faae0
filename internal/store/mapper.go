package store

import (
	"todo/internal/domain"
	"todo/internal/repository/sqlite"
)

// TaskMapper converts between domain tasks and task table rows.
type TaskMapper struct{}

func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToDatabase converts a domain task to a row. Position is assigned by the
// repository from slice order.
func (m *TaskMapper) ToDatabase(t domain.Task) *sqlite.TaskRecord {
	return &sqlite.TaskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Detail:      t.Detail,
		Deadline:    t.Deadline,
		IsCompleted: t.IsCompleted,
	}
}

func (m *TaskMapper) FromDatabase(r *sqlite.TaskRecord) domain.Task {
	return domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Detail:      r.Detail,
		Deadline:    r.Deadline,
		IsCompleted: r.IsCompleted,
	}
}

func (m *TaskMapper) ToDatabaseSlice(tasks []domain.Task) []*sqlite.TaskRecord {
	out := make([]*sqlite.TaskRecord, len(tasks))
	for i, t := range tasks {
		out[i] = m.ToDatabase(t)
	}
	return out
}

func (m *TaskMapper) FromDatabaseSlice(rows []*sqlite.TaskRecord) []domain.Task {
	out := make([]domain.Task, len(rows))
	for i, r := range rows {
		out[i] = m.FromDatabase(r)
	}
	return out
}
