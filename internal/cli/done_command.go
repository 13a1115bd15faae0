package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// DoneCommand handles the done command
type DoneCommand struct {
	app *App
}

// NewDoneCommand creates a new done command handler
func NewDoneCommand(app *App) *DoneCommand {
	return &DoneCommand{app: app}
}

// Execute toggles completion of the task named by args[0].
func (c *DoneCommand) Execute(ctx context.Context, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return NewErrorHandler().HandleSimple(err)
	}
	tasks, err := c.app.store.ToggleCompleted(ctx, id)
	if err != nil {
		return NewErrorHandler().Handle("toggle task", err)
	}

	task := tasks[tasks.IndexOf(id)]
	if task.IsCompleted {
		c.app.printf("Completed task %d: %s\n", task.ID, task.Title)
	} else {
		c.app.printf("Reopened task %d: %s\n", task.ID, task.Title)
	}
	return nil
}

func (r *RootCommand) newDoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "done [id]",
		Aliases: []string{"toggle"},
		Short:   "Toggle a task between completed and incomplete",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context) error {
				return NewDoneCommand(r.app).Execute(ctx, args)
			})
		},
	}
}
