package cli

import (
	"context"

	"github.com/spf13/cobra"

	"todo/internal/domain"
	"todo/internal/errors"
)

// EditCommand handles the edit command
type EditCommand struct {
	app   *App
	patch domain.TaskPatch
}

// NewEditCommand creates a new edit command handler. Only the fields set in
// patch change.
func NewEditCommand(app *App, patch domain.TaskPatch) *EditCommand {
	return &EditCommand{app: app, patch: patch}
}

// Execute applies the patch to the task named by args[0].
func (c *EditCommand) Execute(ctx context.Context, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return NewErrorHandler().HandleSimple(err)
	}
	if c.patch.IsEmpty() {
		return NewErrorHandler().HandleSimple(
			errors.NewInvalidInputError("edit", args[0], "set at least one of --title, --detail, --deadline"))
	}

	tasks, err := c.app.store.Update(ctx, id, c.patch)
	if err != nil {
		return NewErrorHandler().Handle("edit task", err)
	}

	task := tasks[tasks.IndexOf(id)]
	c.app.printf("Updated task %d: %s (due %s)\n", task.ID, task.Title, c.app.formatDeadline(task.Deadline))
	return nil
}

func (r *RootCommand) newEditCommand() *cobra.Command {
	var title, detail, deadline string
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Change a task's title, detail or deadline",
		Long: `Change the fields given as flags and keep the rest. An empty --deadline
resets the deadline to now.

Examples:
  todo edit 3 --title "Buy oat milk"
  todo edit 3 --deadline 2024-02-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("detail") {
				patch.Detail = &detail
			}
			if cmd.Flags().Changed("deadline") {
				patch.Deadline = &deadline
			}
			return r.run(cmd, func(ctx context.Context) error {
				return NewEditCommand(r.app, patch).Execute(ctx, args)
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&detail, "detail", "d", "", "New detail text")
	cmd.Flags().StringVar(&deadline, "deadline", "", "New deadline as YYYY-MM-DD or RFC 3339")
	return cmd
}
