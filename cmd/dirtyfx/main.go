// Command dirtyfx edits customers in a terminal form that tracks unsaved
// edits per field. Without a terminal it prints a transcript instead.
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

	"golang.org/x/term"

	"github.com/odvcencio/dirtyfx/pkg/config"
	apperrors "github.com/odvcencio/dirtyfx/pkg/errors"
)

var version = "dev"

type startupOptions struct {
	configPath   string
	dbPath       string
	customerID   string
	metricsAddr  string
	traceFile    string
	logLevel     string
	plainMode    bool
	plainModeSet bool
	showVersion  bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			reportError(os.Stderr, err)
		}
		os.Exit(exitCodeForError(err))
	}
}

// reportError prints err followed by any remediation tips it carries.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	for _, tip := range apperrors.Remediation(err) {
		fmt.Fprintf(w, "  - %s\n", tip)
	}
}

func parseStartupOptions(args []string, stderr io.Writer) (startupOptions, error) {
	var opts startupOptions
	fs := flag.NewFlagSet("dirtyfx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "config file (default ~/.dirtyfx/config.yaml and ./.dirtyfx/config.yaml)")
	fs.StringVar(&opts.dbPath, "db", "", "customer database path")
	fs.StringVar(&opts.customerID, "id", "", "customer to edit (default: first customer, created if none)")
	fs.StringVar(&opts.metricsAddr, "metrics", "", "serve Prometheus metrics on this address")
	fs.StringVar(&opts.traceFile, "trace", "", "export spans as JSON to this file")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	fs.BoolVar(&opts.plainMode, "plain", false, "print a transcript instead of running the form")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return opts, withExitCode(err, exitUsage)
	}
	if fs.NArg() > 0 {
		return opts, withExitCode(fmt.Errorf("unexpected arguments: %v", fs.Args()), exitUsage)
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "plain" {
			opts.plainModeSet = true
		}
	})
	return opts, nil
}

func loadConfig(opts startupOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigLoad, "load config")
	}

	if opts.dbPath != "" {
		cfg.Storage.Path = opts.dbPath
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Listen = opts.metricsAddr
	}
	if opts.traceFile != "" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.File = opts.traceFile
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.plainModeSet {
		cfg.UI.Plain = opts.plainMode
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "invalid flags")
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseStartupOptions(args, stderr)
	if err != nil {
		return err
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "dirtyfx %s\n", version)
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return withExitCode(err, exitUsage)
	}
	plain := cfg.UI.Plain
	if !opts.plainModeSet && !plain {
		plain = !isInteractiveTerminal()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := newEnvironment(ctx, cfg, plain, stderr)
	if err != nil {
		return err
	}
	defer env.Close()

	id, err := env.resolveCustomer(ctx, opts.customerID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
			return withExitCode(err, exitMissing)
		}
		return err
	}

	if plain {
		return runPlain(ctx, env, id, stdout)
	}
	be, err := newTerminalBackend()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	return runInteractive(ctx, env, id, be, opts.configPath)
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd()))
}
