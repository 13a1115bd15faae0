package sqlite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestScanner implements the Scanner interface for testing
type TestScanner struct {
	data []interface{}
	err  error
}

func (ts *TestScanner) Scan(dest ...interface{}) error {
	if ts.err != nil {
		return ts.err
	}
	if len(dest) != len(ts.data) {
		return errors.New("mismatch in number of destinations")
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *int64:
			*v = ts.data[i].(int64)
		case *int:
			*v = ts.data[i].(int)
		case *string:
			*v = ts.data[i].(string)
		}
	}
	return nil
}

// TestRows replays a fixed set of scanners.
type TestRows struct {
	rows []*TestScanner
	pos  int
	err  error
}

func (tr *TestRows) Next() bool {
	if tr.pos >= len(tr.rows) {
		return false
	}
	tr.pos++
	return true
}

func (tr *TestRows) Scan(dest ...interface{}) error {
	return tr.rows[tr.pos-1].Scan(dest...)
}

func (tr *TestRows) Err() error { return tr.err }

func taskRow(id int64, pos int, title string, completed int64) *TestScanner {
	return &TestScanner{data: []interface{}{id, pos, title, "", "2024-01-10T00:00:00Z", completed}}
}

func TestScanTask(t *testing.T) {
	tests := []struct {
		name        string
		scanner     *TestScanner
		expected    *TaskRecord
		expectError bool
	}{
		{
			name:    "incomplete task",
			scanner: taskRow(4, 0, "Buy milk", 0),
			expected: &TaskRecord{
				ID: 4, Position: 0, Title: "Buy milk", Deadline: "2024-01-10T00:00:00Z",
			},
		},
		{
			name:    "completed task",
			scanner: taskRow(5, 2, "Walk dog", 1),
			expected: &TaskRecord{
				ID: 5, Position: 2, Title: "Walk dog", Deadline: "2024-01-10T00:00:00Z", IsCompleted: true,
			},
		},
		{
			name:        "scan error",
			scanner:     &TestScanner{err: errors.New("scan failed")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanTask(tt.scanner)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestScanTasks(t *testing.T) {
	rows := &TestRows{rows: []*TestScanner{
		taskRow(0, 0, "A", 0),
		taskRow(1, 1, "B", 1),
	}}

	tasks, err := ScanTasks(rows)
	assert.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, "B", tasks[1].Title)
	assert.True(t, tasks[1].IsCompleted)
}

func TestScanTasks_RowsError(t *testing.T) {
	rows := &TestRows{err: errors.New("iteration failed")}

	tasks, err := ScanTasks(rows)
	assert.Error(t, err)
	assert.Nil(t, tasks)
}
