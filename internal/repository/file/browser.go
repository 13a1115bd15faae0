package file

import (
	"encoding/json"
	"fmt"
	"io"

	"todo/internal/domain"
)

// browserRecord is one entry of a list exported from the browser version of
// the app. Older exports spell the deadline key "deadLine" and may lack
// detail.
type browserRecord struct {
	ID          *int64  `json:"id"`
	Title       string  `json:"title"`
	Detail      *string `json:"detail"`
	Deadline    string  `json:"deadline"`
	DeadLine    string  `json:"deadLine"`
	IsCompleted bool    `json:"isCompleted"`
}

// DecodeBrowserExport reads a JSON array exported from the browser store.
// Records are returned in file order with their original ids; callers decide
// whether to keep them.
func DecodeBrowserExport(r io.Reader) ([]domain.Task, error) {
	var records []browserRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode browser export: %w", err)
	}

	tasks := make([]domain.Task, 0, len(records))
	for i, rec := range records {
		t := domain.Task{
			ID:          int64(i),
			Title:       rec.Title,
			Deadline:    rec.Deadline,
			IsCompleted: rec.IsCompleted,
		}
		if rec.ID != nil {
			t.ID = *rec.ID
		}
		if t.Deadline == "" {
			t.Deadline = rec.DeadLine
		}
		// The browser form stored a missing detail as the string "undefined".
		if rec.Detail != nil && *rec.Detail != "undefined" {
			t.Detail = *rec.Detail
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
