package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/semana/internal/config"
	"github.com/javiermolinar/semana/internal/db"
	"github.com/javiermolinar/semana/internal/engine"
	"github.com/javiermolinar/semana/internal/exchange"
	"github.com/javiermolinar/semana/internal/llm"
	"github.com/javiermolinar/semana/internal/logging"
	"github.com/javiermolinar/semana/internal/metrics"
	"github.com/javiermolinar/semana/internal/store"
	"github.com/javiermolinar/semana/internal/task"
	"github.com/javiermolinar/semana/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config     *config.Config
	configPath string
	repo       task.Repository
	engine     *engine.Engine
	metrics    *metrics.Collector
	logger     *slog.Logger
	root       *cobra.Command
	debug      bool // Enable debug logging
	quiet      bool // Suppress notices while the TUI owns the terminal

	in        io.Reader
	out       io.Writer
	errOut    io.Writer
	now       func() time.Time
	newClient func(provider, model, baseURL string) (llm.Client, error)
}

// Option configures an App.
type Option func(*App)

// WithRepository uses repo instead of opening the configured backend.
func WithRepository(repo task.Repository) Option {
	return func(a *App) {
		a.repo = repo
	}
}

// WithConfigPath sets the file the config command reads and writes.
func WithConfigPath(path string) Option {
	return func(a *App) {
		a.configPath = path
	}
}

// WithIO redirects standard input and output.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
		a.errOut = errOut
	}
}

// WithClock sets the time source used for "today" and export names.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithLLMClient makes every LLM command use client.
func WithLLMClient(client llm.Client) Option {
	return func(a *App) {
		a.newClient = func(string, string, string) (llm.Client, error) {
			return client, nil
		}
	}
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config, opts ...Option) *App {
	a := &App{
		config:     cfg,
		configPath: config.DefaultConfigPath(),
		in:         os.Stdin,
		out:        os.Stdout,
		errOut:     os.Stderr,
		now:        time.Now,
		newClient:  llm.NewClient,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.root = &cobra.Command{
		Use:   "semana",
		Short: "A weekly planner with a slot grid",
		Long: `Semana keeps a pool of tasks and a weekly grid of time slots.

Create tasks, drop them on the grid, move, resize or copy them. Placements
never overlap: a conflicting change is rejected and nothing moves.

Run without arguments to open the interactive week view.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setupLogger()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The TUI owns the terminal, so logs go to the debug file or nowhere.
			a.quiet = true
			a.logger = logging.Discard()
			if a.debug {
				logger, closeLog, err := tui.OpenDebugLog(tui.DebugLogPath)
				if err != nil {
					return err
				}
				defer func() { _ = closeLog() }()
				a.logger = logger
			}
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			return tui.Run(a.engine, tui.Options{
				Grid:   a.config.GridGeometry(),
				Offset: a.config.UTCOffset(),
				Theme:  a.config.UI.Theme,
				Logger: a.logger,
				LLM:    a.config.LLM,
			})
		},
	}
	a.root.SetIn(a.in)
	a.root.SetOut(a.out)
	a.root.SetErr(a.errOut)

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (TUI logs to a temp file)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.rmCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.scheduleCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.resizeCmd())
	a.root.AddCommand(a.copyCmd())
	a.root.AddCommand(a.returnCmd())
	a.root.AddCommand(a.unscheduleCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.captureCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "semana %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI application with ctx.
func (a *App) ExecuteContext(ctx context.Context, args ...string) error {
	if args != nil {
		a.root.SetArgs(args)
	}
	return a.root.ExecuteContext(ctx)
}

// Close releases the repository.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}

func (a *App) setupLogger() error {
	if a.logger != nil {
		return nil
	}
	level := a.config.Log.Level
	if a.debug {
		level = "debug"
	}
	logger, err := logging.New(a.errOut, level, a.config.Log.Format)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// ensureRepo opens the configured storage backend if none was injected.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}

	switch a.config.Storage.Backend {
	case config.BackendJSON:
		repo, err := exchange.NewFileRepo(a.config.Storage.JSONPath)
		if err != nil {
			return fmt.Errorf("opening data file: %w", err)
		}
		a.repo = repo
	default:
		if err := os.MkdirAll(filepath.Dir(a.config.Storage.DBPath), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		repo, err := db.New(a.config.Storage.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		a.repo = repo
	}
	return nil
}

// ensureEngine builds the engine over the repository and loads saved state.
func (a *App) ensureEngine(ctx context.Context) error {
	if a.engine != nil {
		return nil
	}
	if err := a.setupLogger(); err != nil {
		return err
	}
	if err := a.ensureRepo(); err != nil {
		return err
	}

	opts := []engine.Option{
		engine.WithLogger(a.logger),
		engine.WithNotifier(engine.NotifierFunc(a.printWarning)),
	}
	if a.metrics != nil {
		opts = append(opts, engine.WithMetrics(a.metrics))
	}

	s := store.New(a.config.GridGeometry(), store.WithClock(a.now))
	e := engine.New(s, a.repo, opts...)
	if err := e.Load(ctx); err != nil {
		return err
	}
	a.engine = e
	return nil
}

// printWarning surfaces save failures; command results are printed by each command.
func (a *App) printWarning(n engine.Notice) {
	if !a.quiet && n.Severity == engine.SeverityWarning {
		fmt.Fprintln(a.errOut, formatWarning("warning: "+n.Message))
	}
}
