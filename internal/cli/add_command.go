package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"todo/internal/domain"
)

// AddCommand handles the add command
type AddCommand struct {
	app      *App
	detail   string
	deadline string
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App, detail, deadline string) *AddCommand {
	return &AddCommand{app: app, detail: detail, deadline: deadline}
}

// Execute adds one task whose title is the joined arguments.
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	in := domain.TaskInput{
		Title:    strings.Join(args, " "),
		Detail:   c.detail,
		Deadline: c.deadline,
	}
	tasks, err := c.app.store.Add(ctx, in)
	if err != nil {
		return NewErrorHandler().Handle("add task", err)
	}

	created := tasks[len(tasks)-1]
	c.app.printf("Added task %d: %s (due %s)\n", created.ID, created.Title, c.app.formatDeadline(created.Deadline))
	return nil
}

func (r *RootCommand) newAddCommand() *cobra.Command {
	var detail, deadline string
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Long: `Add a task to the end of the list. The deadline is a date (YYYY-MM-DD) or an
RFC 3339 timestamp and defaults to now.

Examples:
  todo add "Buy milk"
  todo add "File taxes" --deadline 2024-04-15 --detail "forms in drawer"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context) error {
				return NewAddCommand(r.app, detail, deadline).Execute(ctx, args)
			})
		},
	}
	cmd.Flags().StringVarP(&detail, "detail", "d", "", "Free-form detail text")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline as YYYY-MM-DD or RFC 3339 (default now)")
	return cmd
}
