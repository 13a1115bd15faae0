package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository defines the database operations on the task table. The table
// mirrors one collection; ReplaceTasks swaps its whole content.
type Repository interface {
	ListTasks(ctx context.Context) ([]*TaskRecord, error)
	ReplaceTasks(ctx context.Context, tasks []*TaskRecord) error

	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath and runs pending
// migrations. Use ":memory:" for a throwaway database.
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}
	// One connection: keeps ":memory:" databases alive across calls and
	// serializes writers.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.NewStorageError("configure database", err)
	}

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewStorageError("run migrations", err)
	}
	if version, err := migrations.CurrentVersion(ctx, db); err == nil {
		logging.Debugln("sqlite schema at version", version, "in", dbPath)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// ListTasks retrieves all tasks in collection order
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*TaskRecord, error) {
	query := `
	SELECT id, position, title, detail, deadline, is_completed
	FROM tasks
	ORDER BY position ASC`

	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks")
}

// ReplaceTasks overwrites the table with tasks in one transaction. Positions
// are reassigned from slice order.
func (r *SQLiteRepository) ReplaceTasks(ctx context.Context, tasks []*TaskRecord) error {
	return WithTx(ctx, r.db, "replace tasks", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (id, position, title, detail, deadline, is_completed)
		VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, task := range tasks {
			task.Position = i
			if _, err := stmt.ExecContext(ctx, task.ID, task.Position, task.Title, task.Detail, task.Deadline, boolToInt(task.IsCompleted)); err != nil {
				return fmt.Errorf("insert task %d: %w", task.ID, err)
			}
		}
		return nil
	})
}
