package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"todo/internal/export"
)

// ExportCommand handles the export command
type ExportCommand struct {
	app     *App
	filters FilterOptions
	format  string
	outPath string
}

// NewExportCommand creates a new export command handler. An empty format is
// taken from the output file extension, then from the configured default.
func NewExportCommand(app *App, filters FilterOptions, format, outPath string) *ExportCommand {
	return &ExportCommand{app: app, filters: filters, format: format, outPath: outPath}
}

// Execute writes the projected list to the output file or stdout.
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	format, err := export.ParseFormat(c.resolveFormat())
	if err != nil {
		return NewErrorHandler().HandleSimple(err)
	}
	p, err := c.filters.params()
	if err != nil {
		return NewErrorHandler().Handle("export tasks", err)
	}

	report := export.NewReport(c.app.store.Snapshot(), p, timeNow())
	report.DateFormat = c.app.config.Display.DateFormat
	report.FontPath = c.app.config.Display.PDFFont

	var w io.Writer = c.app.out
	if c.outPath != "" {
		f, err := os.Create(c.outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.outPath, err)
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, format, report); err != nil {
		return NewErrorHandler().Handle("export tasks", err)
	}
	if c.outPath != "" {
		c.app.printf("Exported %d of %d tasks to %s\n", report.Counts.Shown, report.Counts.Total, c.outPath)
	}
	return nil
}

func (c *ExportCommand) resolveFormat() string {
	if c.format != "" {
		return c.format
	}
	if ext := strings.TrimPrefix(filepath.Ext(c.outPath), "."); ext != "" {
		if _, err := export.ParseFormat(ext); err == nil {
			return ext
		}
	}
	return c.app.config.Display.ExportDefaultFormat
}

func (r *RootCommand) newExportCommand() *cobra.Command {
	var filters FilterOptions
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered list as CSV, JSON or PDF",
		Long: `Export the tasks selected by the filter flags, in list order.

Supported formats:
  csv  - Comma-separated values, one row per task
  json - The list with shown/total counts and the filters applied
  pdf  - A printable page with overdue tasks in red

Examples:
  todo export > tasks.csv
  todo export --status incomplete --format pdf --out open.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context) error {
				return NewExportCommand(r.app, filters, format, out).Execute(ctx, args)
			})
		},
	}
	addFilterFlags(cmd, &filters)
	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format: csv, json or pdf (default from --out or TODO_EXPORT_DEFAULT_FORMAT)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}
