package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"todo/internal/config"
	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/store"
	"todo/internal/validation"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

var idValidator = validation.NewTaskValidator()

// App is what every command handler shares: the open store, the effective
// configuration and the terminal streams.
type App struct {
	store  *store.Store
	config *config.Config
	in     io.Reader
	out    io.Writer
}

// NewAppWithIO creates an App with explicit streams.
func NewAppWithIO(st *store.Store, cfg *config.Config, in io.Reader, out io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &App{store: st, config: cfg, in: in, out: out}
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// formatDeadline renders a stored deadline with the configured date format,
// falling back to the raw text when it does not parse.
func (a *App) formatDeadline(deadline string) string {
	now := timeNow()
	t, err := domain.ParseDeadline(deadline, now.Location())
	if err != nil {
		return deadline
	}
	return t.In(now.Location()).Format(a.config.Display.DateFormat)
}

// parseTaskID parses a task id argument.
func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err == nil {
		err = idValidator.ValidateTaskID(id)
	}
	if err != nil {
		return 0, errors.NewInvalidInputError("id", arg, "must be a non-negative integer")
	}
	return id, nil
}
