package cli

import (
	"bufio"
	"context"
	"strings"

	"github.com/spf13/cobra"
)

// DeleteCommand handles the rm command
type DeleteCommand struct {
	app *App
	yes bool
}

// NewDeleteCommand creates a new delete command handler. With yes set the
// confirmation prompt is skipped.
func NewDeleteCommand(app *App, yes bool) *DeleteCommand {
	return &DeleteCommand{app: app, yes: yes}
}

// Execute deletes the task named by args[0] after confirming with the user.
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return NewErrorHandler().HandleSimple(err)
	}
	task, err := c.app.store.Get(id)
	if err != nil {
		return NewErrorHandler().Handle("delete task", err)
	}

	if !c.yes {
		c.app.printf("Delete task %d %q? [y/N]: ", task.ID, task.Title)
		input, _ := bufio.NewReader(c.app.in).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "y", "yes":
		default:
			c.app.printf("Delete cancelled.\n")
			return nil
		}
	}

	if _, err := c.app.store.Remove(ctx, id); err != nil {
		return NewErrorHandler().Handle("delete task", err)
	}

	c.app.printf("Deleted task: %s\n", task.Title)
	return nil
}

func (r *RootCommand) newDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm [id]",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Long: `Delete a task. This operation cannot be undone. You will be asked to confirm
unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context) error {
				return NewDeleteCommand(r.app, yes).Execute(ctx, args)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}
