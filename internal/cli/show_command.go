package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// ShowCommand handles the show command
type ShowCommand struct {
	app *App
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App) *ShowCommand {
	return &ShowCommand{app: app}
}

// Execute prints every field of one task.
func (c *ShowCommand) Execute(ctx context.Context, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return NewErrorHandler().HandleSimple(err)
	}
	task, err := c.app.store.Get(id)
	if err != nil {
		return NewErrorHandler().Handle("show task", err)
	}

	status := "incomplete"
	if task.IsCompleted {
		status = "completed"
	} else if task.IsOverdue(timeNow()) {
		status = "incomplete (overdue)"
	}

	c.app.printf("Task %d: %s\n", task.ID, task.Title)
	c.app.printf("Status:   %s\n", status)
	c.app.printf("Deadline: %s\n", c.app.formatDeadline(task.Deadline))
	if task.Detail != "" {
		c.app.printf("Detail:   %s\n", task.Detail)
	}
	return nil
}

func (r *RootCommand) newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one task in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context) error {
				return NewShowCommand(r.app).Execute(ctx, args)
			})
		},
	}
}
