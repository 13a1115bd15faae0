package cli

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"todo/internal/config"
	"todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/store"
)

// StoreFactory opens the task store for a loaded configuration, applying
// opts after the configured ones. The returned closer releases the backend.
type StoreFactory func(ctx context.Context, cfg *config.Config, opts ...store.Option) (*store.Store, io.Closer, error)

// DefaultStoreFactory opens the backend named by cfg.Storage.Backend.
func DefaultStoreFactory(ctx context.Context, cfg *config.Config, opts ...store.Option) (*store.Store, io.Closer, error) {
	p, err := config.CreatePersister(cfg)
	if err != nil {
		return nil, nil, err
	}
	opts = append(append(config.StoreOptions(cfg), store.WithClock(func() time.Time { return timeNow() })), opts...)
	st, err := store.Open(ctx, p, opts...)
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	return st, p, nil
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd       *cobra.Command
	openStore StoreFactory
	in        io.Reader
	out       io.Writer

	config *config.Config
	app    *App
	closer io.Closer

	// saveErr is the last failed save. serve reports it from handler
	// goroutines.
	saveMu  sync.Mutex
	saveErr error
}

// RootOption configures a RootCommand.
type RootOption func(*RootCommand)

// WithStoreFactory replaces how the store is opened.
func WithStoreFactory(f StoreFactory) RootOption {
	return func(r *RootCommand) { r.openStore = f }
}

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) RootOption {
	return func(r *RootCommand) {
		r.in = in
		r.out = out
	}
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(opts ...RootOption) *RootCommand {
	root := &RootCommand{
		openStore: DefaultStoreFactory,
		in:        os.Stdin,
		out:       os.Stdout,
	}
	for _, opt := range opts {
		opt(root)
	}

	root.cmd = &cobra.Command{
		Use:   "todo",
		Short: "A persisted task list with filtered views",
		Long: `todo keeps a list of tasks with a title, optional detail, a deadline and a
completion flag, and shows them filtered and sorted by deadline.

EXAMPLES:
  todo add "Buy milk" --deadline 2024-01-10   # Add a task due on a date
  todo list --status incomplete --due week     # Open tasks due within 7 days
  todo list --search milk --sort desc          # Search titles and details
  todo done 0                                  # Toggle completion of task 0
  todo rm 0                                    # Delete task 0 after confirming
  todo export --format pdf --out tasks.pdf     # Export the filtered list
  todo serve --addr 127.0.0.1:8080             # Serve the JSON API

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment
  variables > config file (~/.todo/config.yaml or TODO_CONFIG) > defaults

  Storage Configuration:
    TODO_STORAGE_BACKEND                   sqlite or file (default: sqlite)
    TODO_STORAGE_DIR                       Data directory (default: ~/.todo)
    TODO_STORAGE_FILENAME                  Data file name (default: todo.db or tasks.<format>)
    TODO_STORAGE_FORMAT                    File backend format: json, yaml, toml (default: json)
    TODO_STORAGE_WRITE_TIMEOUT             Save timeout (default: 5s)

  Validation Configuration:
    TODO_VALIDATION_TITLE_MIN              Min title length (default: 1)
    TODO_VALIDATION_TITLE_MAX              Max title length (default: 255)
    TODO_VALIDATION_DETAIL_MAX             Max detail length (default: 4000)

  Display Configuration:
    TODO_DISPLAY_DATE_FORMAT               Deadline format (default: 2006-01-02)
    TODO_LIST_DEFAULT_FORMAT               Default list format (default: table)
    TODO_EXPORT_DEFAULT_FORMAT             Default export format (default: csv)
    TODO_PDF_FONT                          TrueType font for PDF export, needed for non-Latin text

  Server Configuration:
    TODO_SERVER_ADDR                       Listen address (default: 127.0.0.1:8080)
    TODO_GIN_MODE                          debug, release or test (default: release)

  Application Configuration:
    TODO_APP_TIMEOUT                       Application timeout (default: 60s)
    TODO_APP_VERBOSE                       Enable verbose output (default: false)

GETTING HELP:
  todo [command] --help                    # Get help for any specific command
  todo completion bash                     # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsStore(cmd) {
				return nil
			}
			return root.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.teardown()
		},
	}
	root.cmd.SetIn(root.in)
	root.cmd.SetOut(root.out)

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx as the parent of every
// command context.
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	if closeErr := r.teardown(); err == nil {
		err = closeErr
	}
	if saveErr := r.lastSaveError(); err == nil && saveErr != nil {
		err = &commandError{msg: "changes were not saved: " + errors.GetUserMessage(saveErr), err: saveErr}
	}
	return err
}

func (r *RootCommand) setSaveError(err error) {
	r.saveMu.Lock()
	r.saveErr = err
	r.saveMu.Unlock()
}

func (r *RootCommand) lastSaveError() error {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()
	return r.saveErr
}

// SetArgs overrides os.Args[1:], for tests.
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (overrides TODO_CONFIG, default ~/.todo/config.yaml)")

	// Storage configuration
	flags.String("backend", "", "Storage backend: sqlite or file (overrides TODO_STORAGE_BACKEND)")
	flags.String("dir", "", "Data directory (overrides TODO_STORAGE_DIR)")
	flags.String("filename", "", "Data file name (overrides TODO_STORAGE_FILENAME)")
	flags.String("file-format", "", "File backend format: json, yaml or toml (overrides TODO_STORAGE_FORMAT)")
	flags.Duration("write-timeout", 0, "Save timeout (overrides TODO_STORAGE_WRITE_TIMEOUT)")

	// Validation configuration
	flags.Int("title-min-length", 0, "Minimum title length (overrides TODO_VALIDATION_TITLE_MIN)")
	flags.Int("title-max-length", 0, "Maximum title length (overrides TODO_VALIDATION_TITLE_MAX)")

	// Display configuration
	flags.String("date-format", "", "Deadline display format (overrides TODO_DISPLAY_DATE_FORMAT)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Application timeout (overrides TODO_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TODO_APP_VERBOSE)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.newAddCommand(),
		r.newListCommand(),
		r.newShowCommand(),
		r.newEditCommand(),
		r.newDoneCommand(),
		r.newDeleteCommand(),
		r.newExportCommand(),
		r.newImportCommand(),
		r.newServeCommand(),
	)
}

// run wraps a handler with the configured application timeout.
func (r *RootCommand) run(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
	defer cancel()
	return fn(ctx)
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// setup loads the configuration and opens the store.
func (r *RootCommand) setup(ctx context.Context) error {
	if r.app != nil {
		return nil
	}
	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}
	r.config = cfg
	logging.SetVerbose(cfg.Application.Verbose)
	logging.Debugf("storage backend %s at %s\n", cfg.Storage.Backend, cfg.GetStoragePath())

	r.setSaveError(nil)
	st, closer, err := r.openStore(ctx, cfg, store.WithOnSaveError(r.setSaveError))
	if err != nil {
		return NewErrorHandler().Handle("open task list", err)
	}
	r.closer = closer
	r.app = NewAppWithIO(st, cfg, r.in, r.out)
	return nil
}

func (r *RootCommand) teardown() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	r.app = nil
	return err
}

func (r *RootCommand) loadConfig() (*config.Config, error) {
	flags := r.cmd.PersistentFlags()
	loader := config.NewLoader()
	if flags.Changed("config") {
		path, _ := flags.GetString("config")
		loader.WithConfigFile(path)
	}
	return loader.LoadWithOverrides(r.getOverridesFromFlags(flags))
}

// getOverridesFromFlags collects the persistent flags the user actually set.
func (r *RootCommand) getOverridesFromFlags(flags *pflag.FlagSet) *config.ConfigOverrides {
	o := &config.ConfigOverrides{}

	if flags.Changed("backend") {
		v, _ := flags.GetString("backend")
		o.Backend = &v
	}
	if flags.Changed("dir") {
		v, _ := flags.GetString("dir")
		o.StorageDir = &v
	}
	if flags.Changed("filename") {
		v, _ := flags.GetString("filename")
		o.Filename = &v
	}
	if flags.Changed("file-format") {
		v, _ := flags.GetString("file-format")
		o.FileFormat = &v
	}
	if flags.Changed("write-timeout") {
		v, _ := flags.GetDuration("write-timeout")
		o.WriteTimeout = &v
	}
	if flags.Changed("title-min-length") {
		v, _ := flags.GetInt("title-min-length")
		o.TitleMinLength = &v
	}
	if flags.Changed("title-max-length") {
		v, _ := flags.GetInt("title-max-length")
		o.TitleMaxLength = &v
	}
	if flags.Changed("date-format") {
		v, _ := flags.GetString("date-format")
		o.DateFormat = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		o.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		o.Verbose = &v
	}

	return o
}

// needsStore is false for cobra's built-in help and completion commands.
func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}
