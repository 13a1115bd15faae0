package store

import (
	"context"

	"todo/internal/domain"
	"todo/internal/repository/sqlite"
)

// Persister mirrors the collection to durable storage. Load returns an empty
// slice when nothing was saved before. Save replaces the stored copy.
type Persister interface {
	Load(ctx context.Context) ([]domain.Task, error)
	Save(ctx context.Context, tasks []domain.Task) error
}

// ClosablePersister is a Persister holding resources such as a database
// handle.
type ClosablePersister interface {
	Persister
	Close() error
}

// SQLitePersister adapts a sqlite.Repository to the Persister contract.
type SQLitePersister struct {
	repo   sqlite.Repository
	mapper *TaskMapper
}

// NewSQLitePersister wraps repo.
func NewSQLitePersister(repo sqlite.Repository) *SQLitePersister {
	return &SQLitePersister{repo: repo, mapper: NewTaskMapper()}
}

// OpenSQLite opens the database at path and wraps it.
func OpenSQLite(path string) (*SQLitePersister, error) {
	repo, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	return NewSQLitePersister(repo), nil
}

func (p *SQLitePersister) Load(ctx context.Context) ([]domain.Task, error) {
	rows, err := p.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return p.mapper.FromDatabaseSlice(rows), nil
}

func (p *SQLitePersister) Save(ctx context.Context, tasks []domain.Task) error {
	return p.repo.ReplaceTasks(ctx, p.mapper.ToDatabaseSlice(tasks))
}

func (p *SQLitePersister) Close() error {
	return p.repo.Close()
}

// MemoryPersister keeps the saved collection in memory. It is used for
// throwaway sessions and tests.
type MemoryPersister struct {
	tasks   []domain.Task
	SaveErr error
	Saves   int
}

// NewMemoryPersister returns a persister preloaded with tasks.
func NewMemoryPersister(tasks ...domain.Task) *MemoryPersister {
	return &MemoryPersister{tasks: append([]domain.Task{}, tasks...)}
}

func (p *MemoryPersister) Load(context.Context) ([]domain.Task, error) {
	return append([]domain.Task{}, p.tasks...), nil
}

func (p *MemoryPersister) Save(_ context.Context, tasks []domain.Task) error {
	p.Saves++
	if p.SaveErr != nil {
		return p.SaveErr
	}
	p.tasks = append([]domain.Task{}, tasks...)
	return nil
}

// Saved returns the last successfully saved collection.
func (p *MemoryPersister) Saved() []domain.Task {
	return append([]domain.Task{}, p.tasks...)
}

func (p *MemoryPersister) Close() error { return nil }
