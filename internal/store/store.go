// Package store owns the task collection. Every mutation is a pure transform
// of the current snapshot followed by an atomic replacement and a
// write-through save.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/validation"
)

// Store is the canonical, insertion-ordered task collection.
type Store struct {
	mu      sync.Mutex
	tasks   domain.Collection
	version uint64

	persister   Persister
	validator   *validation.TaskValidator
	now         func() time.Time
	saveTimeout time.Duration
	onSaveError func(error)

	saveMu       sync.Mutex
	savedVersion uint64

	subsMu  sync.Mutex
	subs    map[int]func(domain.Collection)
	nextSub int

	notifyMu        sync.Mutex
	notifiedVersion uint64
}

// Option configures a Store.
type Option func(*Store)

// WithValidator replaces the default field validator.
func WithValidator(v *validation.TaskValidator) Option {
	return func(s *Store) { s.validator = v }
}

// WithClock sets the time source used for default deadlines.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSaveTimeout bounds each write-through save. Zero means no bound
// beyond the caller's context.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Store) { s.saveTimeout = d }
}

// WithOnSaveError registers a hook called when a write-through save fails.
// The in-memory mutation stands either way.
func WithOnSaveError(fn func(error)) Option {
	return func(s *Store) { s.onSaveError = fn }
}

// Open loads the collection from p once and returns a ready store.
func Open(ctx context.Context, p Persister, opts ...Option) (*Store, error) {
	s := &Store{
		persister: p,
		validator: validation.NewTaskValidator(),
		now:       time.Now,
		subs:      make(map[int]func(domain.Collection)),
	}
	for _, opt := range opts {
		opt(s)
	}

	tasks, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.tasks = domain.Collection(tasks).Clone()
	logging.Debugf("store opened with %d tasks\n", len(s.tasks))
	return s, nil
}

// Snapshot returns a copy of the current collection.
func (s *Store) Snapshot() domain.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Clone()
}

// Version increments on every successful mutation.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// SnapshotWithVersion returns a copy of the collection and the version it
// belongs to, read under one lock.
func (s *Store) SnapshotWithVersion() (domain.Collection, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Clone(), s.version
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id int64) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.tasks.IndexOf(id)
	if i < 0 {
		return domain.Task{}, notFound(id)
	}
	return s.tasks[i], nil
}

// Subscribe registers fn to receive the collection after every mutation.
// Calls happen on the mutating goroutine after the store lock is released,
// one delivery at a time and never older than the last one delivered. fn
// must not mutate the store.
func (s *Store) Subscribe(fn func(domain.Collection)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

// Add appends a new incomplete task. The title is stored trimmed and a blank
// deadline defaults to now.
func (s *Store) Add(ctx context.Context, in domain.TaskInput) (domain.Collection, error) {
	if err := s.validator.ValidateInput(in); err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}
	deadline, err := domain.NormalizeDeadline(in.Deadline, s.now())
	if err != nil {
		return nil, errors.NewValidationError("invalid deadline", err)
	}

	return s.mutate(ctx, "add", func(tasks domain.Collection) (domain.Collection, error) {
		return append(tasks, domain.Task{
			ID:          tasks.NextID(),
			Title:       strings.TrimSpace(in.Title),
			Detail:      in.Detail,
			Deadline:    deadline,
			IsCompleted: false,
		}), nil
	})
}

// Update replaces the fields set in patch on the task with id. The id and
// position never change.
func (s *Store) Update(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Collection, error) {
	if err := s.validator.ValidatePatch(patch); err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}
	if patch.Deadline != nil {
		deadline, err := domain.NormalizeDeadline(*patch.Deadline, s.now())
		if err != nil {
			return nil, errors.NewValidationError("invalid deadline", err)
		}
		patch.Deadline = &deadline
	}

	return s.mutate(ctx, "update", func(tasks domain.Collection) (domain.Collection, error) {
		i := tasks.IndexOf(id)
		if i < 0 {
			return nil, notFound(id)
		}
		merged := patch.Apply(tasks[i])
		merged.ID = id
		if !merged.IsValid() {
			return nil, errors.NewValidationError("title cannot be empty", nil)
		}
		tasks[i] = merged
		return tasks, nil
	})
}

// ToggleCompleted flips the completion state of the task with id.
func (s *Store) ToggleCompleted(ctx context.Context, id int64) (domain.Collection, error) {
	return s.mutate(ctx, "toggle", func(tasks domain.Collection) (domain.Collection, error) {
		i := tasks.IndexOf(id)
		if i < 0 {
			return nil, notFound(id)
		}
		tasks[i].IsCompleted = !tasks[i].IsCompleted
		return tasks, nil
	})
}

// Remove deletes the task with id. Other tasks keep their ids and order.
func (s *Store) Remove(ctx context.Context, id int64) (domain.Collection, error) {
	return s.mutate(ctx, "remove", func(tasks domain.Collection) (domain.Collection, error) {
		i := tasks.IndexOf(id)
		if i < 0 {
			return nil, notFound(id)
		}
		return append(tasks[:i], tasks[i+1:]...), nil
	})
}

// mutate applies fn to a private copy of the collection and, on success,
// swaps it in, saves it and notifies subscribers.
func (s *Store) mutate(ctx context.Context, op string, fn func(domain.Collection) (domain.Collection, error)) (domain.Collection, error) {
	s.mu.Lock()
	next, err := fn(s.tasks.Clone())
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.tasks = next
	s.version++
	version := s.version
	snapshot := next.Clone()
	s.mu.Unlock()

	logging.Debugf("store %s: %d tasks, version %d\n", op, len(snapshot), version)
	s.persist(ctx, version, snapshot)
	s.notify(version, snapshot)
	return snapshot, nil
}

// persist writes snapshot through unless a newer version was already saved.
// Failures are reported and never undo the mutation.
func (s *Store) persist(ctx context.Context, version uint64, snapshot domain.Collection) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if version <= s.savedVersion {
		return
	}

	if s.saveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.saveTimeout)
		defer cancel()
	}

	if err := s.persister.Save(ctx, []domain.Task(snapshot)); err != nil {
		logging.Warnf("saving the task list failed, changes are kept for this session only: %s", errors.GetUserMessage(err))
		logging.Debugf("save failed: %v\n", err)
		if s.onSaveError != nil {
			s.onSaveError(err)
		}
		return
	}
	s.savedVersion = version
}

// notify delivers snapshot unless a newer version was already delivered.
func (s *Store) notify(version uint64, snapshot domain.Collection) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if version <= s.notifiedVersion {
		return
	}
	s.notifiedVersion = version

	s.subsMu.Lock()
	fns := make([]func(domain.Collection), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(snapshot.Clone())
	}
}

func notFound(id int64) error {
	return errors.NewNotFoundError("task", fmt.Sprintf("%d", id))
}
