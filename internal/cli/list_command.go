package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"todo/internal/errors"
	"todo/internal/export"
	"todo/internal/query"
)

// Output formats for the list command.
const (
	listFormatTable = "table"
	listFormatJSON  = "json"
)

// FilterOptions are the projection flags shared by list and export.
type FilterOptions struct {
	Status string
	Due    string
	Sort   string
	Search string
}

func (o FilterOptions) params() (query.Params, error) {
	return query.ParseParams(o.Status, o.Due, o.Sort, o.Search)
}

func addFilterFlags(cmd *cobra.Command, o *FilterOptions) {
	flags := cmd.Flags()
	flags.StringVar(&o.Status, "status", "all", "Completion filter: all, incomplete or completed")
	flags.StringVar(&o.Due, "due", "all", "Deadline window: all, today, week or month")
	flags.StringVar(&o.Sort, "sort", "asc", "Deadline order: asc or desc")
	flags.StringVarP(&o.Search, "search", "s", "", "Case-sensitive text to find in title or detail")
}

// ListCommand handles the list command
type ListCommand struct {
	app     *App
	filters FilterOptions
	format  string
}

// NewListCommand creates a new list command handler. An empty format uses
// the configured default.
func NewListCommand(app *App, filters FilterOptions, format string) *ListCommand {
	if format == "" {
		format = app.config.Display.ListDefaultFormat
	}
	return &ListCommand{app: app, filters: filters, format: format}
}

// Execute prints the projected list. Trailing arguments are joined into the
// search text when --search is not given.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	if c.filters.Search == "" && len(args) > 0 {
		c.filters.Search = strings.Join(args, " ")
	}
	p, err := c.filters.params()
	if err != nil {
		return NewErrorHandler().Handle("list tasks", err)
	}

	now := timeNow()
	report := export.NewReport(c.app.store.Snapshot(), p, now)
	report.DateFormat = c.app.config.Display.DateFormat

	switch strings.ToLower(c.format) {
	case listFormatJSON:
		return export.Write(c.app.out, export.FormatJSON, report)
	case listFormatTable:
		return c.printTable(report)
	default:
		return NewErrorHandler().Handle("list tasks",
			errors.NewInvalidInputError("format", c.format, "supported formats are table, json"))
	}
}

// printTable prints one line per task:
//
//	[x]  ID  DEADLINE  TITLE
//
// Overdue tasks are marked with "!".
func (c *ListCommand) printTable(r export.Report) error {
	if len(r.Tasks) == 0 {
		c.app.printf("No tasks found (0 of %d)\n", r.Counts.Total)
		return nil
	}

	tw := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tDEADLINE\tTITLE")
	for _, t := range r.Tasks {
		mark := "[ ]"
		if t.IsCompleted {
			mark = "[x]"
		}
		due := c.app.formatDeadline(t.Deadline)
		if t.Overdue {
			due += " !"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", mark, t.ID, due, t.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	c.app.printf("Showing %d of %d tasks\n", r.Counts.Shown, r.Counts.Total)
	return nil
}

func (r *RootCommand) newListCommand() *cobra.Command {
	var filters FilterOptions
	var format string
	cmd := &cobra.Command{
		Use:     "list [search text]",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks filtered by completion, deadline window and text, sorted by
deadline. Overdue tasks are marked with "!".

Deadline windows count calendar days from today: today includes anything due
today or earlier, week within 7 days, month within 30 days.

Examples:
  todo list                                # All tasks, earliest deadline first
  todo list --status incomplete --due week # Open tasks due within a week
  todo list milk                           # Tasks mentioning "milk"
  todo list --sort desc --format json      # Latest deadline first, as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context) error {
				return NewListCommand(r.app, filters, format).Execute(ctx, args)
			})
		},
	}
	addFilterFlags(cmd, &filters)
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table or json (default from TODO_LIST_DEFAULT_FORMAT)")
	return cmd
}
