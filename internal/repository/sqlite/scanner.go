package sqlite

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTask scans a single task from a database row
func ScanTask(scanner Scanner) (*TaskRecord, error) {
	task := &TaskRecord{}
	var completed int64
	err := scanner.Scan(
		&task.ID,
		&task.Position,
		&task.Title,
		&task.Detail,
		&task.Deadline,
		&completed,
	)
	if err != nil {
		return nil, err
	}
	task.IsCompleted = completed != 0
	return task, nil
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]*TaskRecord, error) {
	tasks := make([]*TaskRecord, 0)
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
