package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"todo/internal/repository/file"
	"todo/internal/store"
)

// ImportCommand handles the import command
type ImportCommand struct {
	app  *App
	mode string
}

// NewImportCommand creates a new import command handler
func NewImportCommand(app *App, mode string) *ImportCommand {
	return &ImportCommand{app: app, mode: mode}
}

// Execute reads a list exported from the browser version of the app and
// merges it into the store.
func (c *ImportCommand) Execute(ctx context.Context, args []string) error {
	mode, err := store.ParseImportMode(c.mode)
	if err != nil {
		return NewErrorHandler().HandleSimple(err)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	tasks, err := file.DecodeBrowserExport(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	all, err := c.app.store.Import(ctx, tasks, mode)
	if err != nil {
		return NewErrorHandler().Handle("import tasks", err)
	}

	c.app.printf("Imported %d tasks (%s), %d in list\n", len(tasks), mode, len(all))
	return nil
}

func (r *RootCommand) newImportCommand() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import tasks exported from the browser app",
		Long: `Import a JSON array of tasks saved by the browser version of the app.

Modes:
  append  - add the tasks after the existing ones with new ids (default)
  replace - discard the current list and keep the imported ids`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context) error {
				return NewImportCommand(r.app, mode).Execute(ctx, args)
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "append", "append or replace")
	return cmd
}
