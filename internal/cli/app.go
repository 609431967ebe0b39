// Package cli wires configuration, storage and the remote client together
// and exposes them as the todo command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/thehappyredwolf/todo-app/internal/auth"
	"github.com/thehappyredwolf/todo-app/internal/config"
	"github.com/thehappyredwolf/todo-app/internal/dispatch"
	"github.com/thehappyredwolf/todo-app/internal/notify"
	"github.com/thehappyredwolf/todo-app/internal/remote"
	"github.com/thehappyredwolf/todo-app/internal/store"
	"github.com/thehappyredwolf/todo-app/internal/store/jsonstore"
	"github.com/thehappyredwolf/todo-app/internal/store/sqlitestore"
	"github.com/thehappyredwolf/todo-app/internal/todos"
	"github.com/thehappyredwolf/todo-app/internal/ui"
	"github.com/thehappyredwolf/todo-app/pkg/logutils"
)

// App is populated by the root Before hook; commands hold a pointer to it.
type App struct {
	Config     *config.Config
	Creds      *auth.Credentials
	Remote     *remote.Client
	Cache      store.Cache
	Store      *todos.Store
	Bus        *notify.Bus
	Dispatcher *dispatch.Dispatcher

	out    io.Writer
	errOut io.Writer

	// set by the TUI, which owns the terminal and shows notifications itself
	interactive atomic.Bool
}

// Run executes the command line and returns the process exit code
// (0 ok, 1 runtime error, 2 usage or validation error).
func Run(ctx context.Context, args []string, version string, out, errOut io.Writer) int {
	root := NewRootCmd(version, out, errOut)
	err := root.Run(ctx, args)

	code, show := exitCode(err)
	if show {
		ui.Fail(errOut, err.Error())
	}
	return code
}

// NewRootCmd builds the todo command tree.
func NewRootCmd(version string, out, errOut io.Writer) *cli.Command {
	var (
		logCloser func()
		flags     = &Flags{}
		app       = &App{out: out, errOut: errOut}
	)

	root := &cli.Command{
		Name:      "todo",
		Usage:     "Track todos against a remote REST collection",
		UsageText: "todo [global options] [command [command options]]",
		Description: `todo keeps a short list of todos in sync with a remote REST resource and
a local cache.

Run 'todo' with no arguments to open the interactive list.`,
		Version:   version,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal)",
				Sources:     cli.EnvVars("TODO_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/todo.log)",
				Sources:     cli.EnvVars("TODO_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TODO_CONFIG"),
				Value:       config.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TODO_DATA_DIR"),
				Value:       config.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "color theme (classic, neon, mono)",
				Sources:     cli.EnvVars("TODO_THEME"),
				Destination: &flags.Theme,
			},
			&cli.BoolFlag{
				Name:        "group",
				Usage:       "group listings by pending/done",
				Sources:     cli.EnvVars("TODO_GROUP"),
				Destination: &flags.Group,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "todo.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, usageErrorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, usageErrorf("load config: %w", err)
			}
			if flags.Theme != "" {
				cfg.TUI.Theme = flags.Theme
				if err := cfg.Validate(); err != nil {
					return ctx, usageErrorf("invalid theme: %w", err)
				}
			}
			ui.SetTheme(cfg.TUI.Theme)

			if err := app.open(cfg, filepath.Dir(flags.ConfigPath)); err != nil {
				return ctx, err
			}
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			err := app.close()
			if logCloser != nil {
				logCloser()
			}
			return err
		},
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		OnUsageError:   onUsageError,
	}

	tuiCmd := NewTuiCmd(app)

	root = NewLsCmd(flags, app).Register(root)
	root = NewAddCmd(app).Register(root)
	root = NewDoneCmd(app).Register(root)
	root = NewRmCmd(app).Register(root)
	root = NewClearCmd(app).Register(root)
	root = NewRefreshCmd(app).Register(root)
	root = NewAuthCmd(app).Register(root)

	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return usageErrorf("unknown command %q. Run 'todo --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	return root
}

// open builds the long-lived components from cfg.
func (a *App) open(cfg *config.Config, credDir string) error {
	cache, err := openCache(cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	a.Config = cfg
	a.Cache = cache
	a.Creds = auth.New(credDir)
	a.Remote = remote.New(remote.Options{
		BaseURL: cfg.Remote.BaseURL,
		Timeout: cfg.Remote.Timeout,
		Token:   a.Creds.Bearer,
		Logger:  component("remote"),
	})
	a.Store = todos.New(cache, cfg.Remote.Limit, component("todos"))
	a.Bus = notify.NewBus(component("notify"))
	a.Bus.Subscribe(a.printNote)
	a.Dispatcher = dispatch.New(a.Store, a.Remote, a.Bus, cfg.IDs, component("dispatch"))

	log.Debug().
		Str("backend", cfg.Cache.Backend).
		Str("cache", cfg.Cache.Path).
		Str("remote", cfg.Remote.BaseURL).
		Msg("app ready")
	return nil
}

func (a *App) close() error {
	if a.Cache == nil {
		return nil
	}
	if err := a.Cache.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close cache")
		return err
	}
	return nil
}

// hydrate loads the collection for a one-shot command. A failed save of the
// fetched snapshot is only worth a banner; a failed fetch is returned.
func (a *App) hydrate(ctx context.Context) error {
	src, err := a.Store.Hydrate(ctx, a.Remote)
	var perr *todos.PersistError
	switch {
	case errors.As(err, &perr):
		a.Bus.Bannerf("Could not save todos locally: %v", perr.Err)
	case err != nil:
		a.Bus.Bannerf("Failed to load todos: %v", err)
		return reported(err, ExitRuntime)
	}
	log.Debug().Str("source", src.String()).Int("count", a.Store.Len()).Msg("hydrated")
	return nil
}

func (a *App) printNote(n notify.Notification) {
	if a.interactive.Load() {
		return
	}
	if n.Kind == notify.KindAlert {
		ui.Fail(a.errOut, n.Message)
		return
	}
	ui.Warn(a.errOut, n.Message)
}

func openCache(cfg config.CacheConfig) (store.Cache, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return sqlitestore.Open(cfg.Path)
	default:
		return jsonstore.New(cfg.Path), nil
	}
}

func component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &exitError{code: ExitUsage, err: err}
}
