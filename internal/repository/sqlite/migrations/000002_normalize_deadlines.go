package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"todo/internal/domain"
	"todo/internal/logging"
)

func init() {
	RegisterGoMigration(2, Up_000002_normalize_deadlines, Down_000002_normalize_deadlines)
}

// Up_000002_normalize_deadlines rewrites every deadline that is not already
// RFC 3339 into RFC 3339. Rows written before deadlines were normalized may
// hold date-only values ("2024-01-10") or browser Date strings
// ("Wed Jan 10 2024 09:00:00 GMT+0900 (JST)"). Date-only values are read in
// the local zone. Unparseable values are left untouched and logged.
func Up_000002_normalize_deadlines(ctx context.Context, tx *sql.Tx) error {
	type row struct {
		id       int64
		deadline string
	}
	var pending []row

	rows, err := tx.QueryContext(ctx, "SELECT id, deadline FROM tasks")
	if err != nil {
		return fmt.Errorf("failed to query tasks: %w", err)
	}
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.deadline); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan task row: %w", err)
		}
		if !domain.IsCanonicalDeadline(r.deadline) {
			pending = append(pending, r)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating tasks: %w", err)
	}
	rows.Close()

	stmt, err := tx.PrepareContext(ctx, "UPDATE tasks SET deadline = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare deadline update: %w", err)
	}
	defer stmt.Close()

	updated, skipped := 0, 0
	for _, r := range pending {
		t, err := domain.ParseDeadline(r.deadline, time.Local)
		if err != nil {
			logging.Warnf("migration 2: leaving deadline of task %d as %q: %v", r.id, r.deadline, err)
			skipped++
			continue
		}
		if _, err := stmt.ExecContext(ctx, domain.FormatDeadline(t), r.id); err != nil {
			return fmt.Errorf("failed to update deadline for task %d: %w", r.id, err)
		}
		updated++
	}

	logging.Debugf("migration 2: normalized %d deadlines, skipped %d\n", updated, skipped)
	return nil
}

// Down_000002_normalize_deadlines is a no-op: normalized values are valid
// input for every reader.
func Down_000002_normalize_deadlines(ctx context.Context, tx *sql.Tx) error {
	return nil
}
