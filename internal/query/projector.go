package query

import (
	"sync"
	"time"

	"todo/internal/domain"
)

// Source is a versioned task collection, such as *store.Store.
type Source interface {
	Version() uint64
	SnapshotWithVersion() (domain.Collection, uint64)
	Subscribe(fn func(domain.Collection)) (unsubscribe func())
}

type memoKey struct {
	version uint64
	params  Params
	today   string
}

// Projector caches the last projection and recomputes only when the source
// version, the parameters or the current date change. A source notification
// drops the cached result right away.
type Projector struct {
	src         Source
	unsubscribe func()

	mu     sync.Mutex
	key    memoKey
	valid  bool
	result []domain.Task
	total  int
	hits   int
}

func NewProjector(src Source) *Projector {
	pr := &Projector{src: src}
	pr.unsubscribe = src.Subscribe(func(domain.Collection) { pr.invalidate() })
	return pr
}

// Close stops listening to the source.
func (pr *Projector) Close() {
	pr.unsubscribe()
}

func (pr *Projector) invalidate() {
	pr.mu.Lock()
	pr.valid = false
	pr.result = nil
	pr.mu.Unlock()
}

// Project returns the projection of the source for p as of now, together
// with its counts. Callers must not modify the returned slice.
func (pr *Projector) Project(p Params, now time.Time) ([]domain.Task, Counts) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	key := memoKey{
		version: pr.src.Version(),
		params:  p,
		today:   now.Format(domain.DateLayout) + " " + now.Location().String(),
	}
	if pr.valid && pr.key == key {
		pr.hits++
		return pr.result, Counts{Shown: len(pr.result), Total: pr.total}
	}

	tasks, version := pr.src.SnapshotWithVersion()
	key.version = version

	pr.result = Project(tasks, p, now)
	pr.total = len(tasks)
	pr.key = key
	pr.valid = true
	return pr.result, Counts{Shown: len(pr.result), Total: pr.total}
}
