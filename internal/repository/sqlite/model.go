package sqlite

// TaskRecord is one row of the tasks table. Position keeps the collection's
// insertion order, which ids alone do not encode once tasks are re-added
// after deletion.
type TaskRecord struct {
	ID          int64
	Position    int
	Title       string
	Detail      string
	Deadline    string
	IsCompleted bool
}
