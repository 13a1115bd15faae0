package store

import (
	"context"
	"fmt"
	"strings"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/validation"
)

// ImportMode says how imported tasks combine with the existing collection.
type ImportMode int

const (
	// ImportAppend adds the tasks at the tail with freshly assigned ids.
	ImportAppend ImportMode = iota
	// ImportReplace discards the collection and keeps the imported ids.
	ImportReplace
)

func (m ImportMode) String() string {
	switch m {
	case ImportAppend:
		return "append"
	case ImportReplace:
		return "replace"
	default:
		return fmt.Sprintf("ImportMode(%d)", int(m))
	}
}

// ParseImportMode parses "append" or "replace". Empty input means append.
func ParseImportMode(s string) (ImportMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "append":
		return ImportAppend, nil
	case "replace":
		return ImportReplace, nil
	default:
		return 0, errors.NewInvalidInputError("mode", s, "must be append or replace")
	}
}

// Import merges tasks from another list, for example a browser export. Titles
// are trimmed and parseable deadlines normalized; deadlines that do not parse
// are kept verbatim. Any blank title or, in replace mode, a repeated id
// rejects the whole import.
func (s *Store) Import(ctx context.Context, tasks []domain.Task, mode ImportMode) (domain.Collection, error) {
	now := s.now()
	cleaned := make([]domain.Task, 0, len(tasks))
	ve := validation.NewValidationError()
	seen := make(map[int64]bool, len(tasks))

	for i, t := range tasks {
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			ve.AddRequiredError(fmt.Sprintf("tasks[%d].title", i))
			continue
		}
		if mode == ImportReplace {
			if seen[t.ID] {
				ve.AddInvalidValueError(fmt.Sprintf("tasks[%d].id", i), t.ID, "duplicate id")
				continue
			}
			seen[t.ID] = true
		}
		if d, err := domain.NormalizeDeadline(t.Deadline, now); err == nil {
			t.Deadline = d
		}
		cleaned = append(cleaned, t)
	}
	if err := ve.OrNil(); err != nil {
		return nil, errors.NewValidationError("invalid import", err)
	}

	return s.mutate(ctx, "import "+mode.String(), func(current domain.Collection) (domain.Collection, error) {
		if mode == ImportReplace {
			return domain.Collection(cleaned).Clone(), nil
		}
		for _, t := range cleaned {
			t.ID = current.NextID()
			current = append(current, t)
		}
		return current, nil
	})
}
