// Package main is the entry point for the Pound editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/dshills/pound/internal/app"
	"github.com/dshills/pound/internal/config"
	"github.com/dshills/pound/internal/config/watcher"
	"github.com/dshills/pound/internal/renderer"
	"github.com/dshills/pound/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = renderer.Version
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if cli.showVersion {
		fmt.Printf("Pound %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	cfg, err := resolveConfig(cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logOut, err := app.OpenLogFile(cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", app.NewOperationError("open log", cfg.Logging.File, err))
		return 1
	}
	defer logOut.Close()

	logCfg := app.DefaultLoggerConfig()
	logCfg.Level = app.ParseLogLevel(cfg.Logging.Level)
	logCfg.Output = logOut
	logger := app.NewLogger(logCfg).WithField("session", uuid.NewString())
	if cfg.Source != "" {
		logger.Debug("config loaded from %s", cfg.Source)
	}

	application, err := app.New(backend.NewTerminal(), app.Options{
		PollTimeout: cfg.Editor.PollTimeout,
		Version:     version,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("%v", err)
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if w := watchConfig(cli, application); w != nil {
		defer w.Close()
	}

	err = application.Run(ctx)
	switch {
	case err == nil:
		return 0
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		logger.Info("stopped by signal")
		return 0
	}

	logger.Error("%v", err)
	// Restore the terminal before printing so the message survives the clear.
	application.Shutdown()

	var perr *app.RecoveredPanicError
	if errors.As(err, &perr) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", perr.Summary())
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}

// cliOptions holds the parsed command line. Empty strings mean "not set"
// so configuration file and environment values are kept.
type cliOptions struct {
	configPath  string
	logLevel    string
	logFile     string
	pollTimeout string
	showVersion bool

	configSet  bool
	logFileSet bool
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	var showHelp bool

	fs := flag.NewFlagSet("pound", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&opts.pollTimeout, "poll-timeout", "", "Input poll timeout (e.g. 1s, 250ms)")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "Show help message")
	fs.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Pound - a minimal terminal editor\n\n")
		fmt.Fprintf(stderr, "Usage: pound [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nKeys:\n")
		fmt.Fprintf(stderr, "  Arrows, Home, End, PgUp, PgDn   Move the cursor\n")
		fmt.Fprintf(stderr, "  Ctrl+q                          Quit\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if showHelp {
		fs.Usage()
		return opts, flag.ErrHelp
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "config", "c":
			opts.configSet = true
		case "log-file":
			opts.logFileSet = true
		}
	})

	if opts.logLevel != "" && !config.ValidLogLevel(opts.logLevel) {
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.logLevel)
	}

	return opts, nil
}

// path returns the file to read: the -config flag or the default.
func (o cliOptions) path() string {
	if o.configSet {
		return o.configPath
	}
	return config.DefaultPath()
}

// resolveConfig loads the configuration and applies flag overrides. A file
// named with -config must exist; the default file is optional.
func resolveConfig(cli cliOptions, opts ...config.Option) (*config.Config, error) {
	path := cli.path()
	loadOpts := []config.Option{config.WithPath(path)}
	if cli.configSet {
		loadOpts = append(loadOpts, config.WithRequired())
	}

	cfg, err := config.Load(append(loadOpts, opts...)...)
	if err != nil {
		oe := app.NewOperationError("load config", path, err)
		if cli.configSet {
			oe = oe.WithContext("from -config")
		}
		return nil, oe
	}
	if err := applyFlags(cfg, cli); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags overrides cfg with flags given on the command line.
func applyFlags(cfg *config.Config, cli cliOptions) error {
	if cli.logLevel != "" {
		cfg.Logging.Level = cli.logLevel
	}
	if cli.logFileSet {
		cfg.Logging.File = cli.logFile
	}
	if cli.pollTimeout != "" {
		d, err := config.ParseDuration(cli.pollTimeout)
		if err != nil {
			return fmt.Errorf("-poll-timeout: %w", err)
		}
		cfg.Editor.PollTimeout = d
	}
	return cfg.Validate()
}

// watchConfig reloads the log level and poll timeout when the
// configuration file changes. It returns nil when there is nothing to watch.
func watchConfig(cli cliOptions, application *app.Application) *watcher.Watcher {
	path := cli.path()
	if path == "" {
		return nil
	}
	logger := application.Logger().WithComponent("config")

	w, err := watcher.New(path, func(ev watcher.Event) {
		reloadConfig(cli, application, logger, ev)
	}, watcher.WithErrorHandler(func(err error) {
		logger.Warn("watch: %v", err)
	}))
	if err != nil {
		logger.Debug("not watching %s: %v", path, err)
		return nil
	}
	return w
}

// reloadConfig applies a changed configuration file to the running editor.
// An invalid file is reported and the current settings are kept.
func reloadConfig(cli cliOptions, application *app.Application, logger *app.Logger, ev watcher.Event) {
	cfg, err := resolveConfig(cli)
	if err != nil {
		logger.Warn("%v", app.WrapError(err, "reload after %s", ev.Op))
		return
	}
	application.Logger().SetLevel(app.ParseLogLevel(cfg.Logging.Level))
	application.SetPollTimeout(cfg.Editor.PollTimeout)
	logger.Info("reloaded after %s: level=%s poll=%v", ev.Op, cfg.Logging.Level, cfg.Editor.PollTimeout)
}
