package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"todo/internal/web"
)

// ServeCommand handles the serve command
type ServeCommand struct {
	app  *App
	addr string
}

// NewServeCommand creates a new serve command handler. An empty addr uses
// the configured one.
func NewServeCommand(app *App, addr string) *ServeCommand {
	if addr == "" {
		addr = app.config.Server.Addr
	}
	return &ServeCommand{app: app, addr: addr}
}

// Execute serves the JSON API until ctx is cancelled.
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	srv := web.NewServer(c.app.store, c.app.config.Server.GinMode,
		web.WithClock(timeNow), web.WithPDFFont(c.app.config.Display.PDFFont))
	c.app.printf("Serving tasks on http://%s/api/tasks\n", c.addr)
	defer srv.Close()
	return srv.Run(ctx, c.addr)
}

func (r *RootCommand) newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list over HTTP",
		Long: `Serve a JSON API over the task list until interrupted.

Endpoints:
  GET    /api/tasks?status=&due=&sort=&q=
  POST   /api/tasks
  GET    /api/tasks/:id
  PUT    /api/tasks/:id
  POST   /api/tasks/:id/toggle
  DELETE /api/tasks/:id
  GET    /api/export?format=csv|json|pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No application timeout: the server runs until a signal.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return NewServeCommand(r.app, addr).Execute(ctx, args)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides TODO_SERVER_ADDR)")
	return cmd
}
