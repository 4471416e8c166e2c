package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/odvcencio/dirtyfx/pkg/config"
	apperrors "github.com/odvcencio/dirtyfx/pkg/errors"
	"github.com/odvcencio/dirtyfx/pkg/logging"
	"github.com/odvcencio/dirtyfx/pkg/storage"
	"github.com/odvcencio/dirtyfx/pkg/telemetry"
)

// environment holds the process-wide services shared by both front ends.
type environment struct {
	cfg     *config.Config
	logger  *logging.Logger
	hub     *telemetry.Hub
	metrics *telemetry.Metrics
	store   *storage.Store

	cancel  context.CancelFunc
	closers []func()
}

func newEnvironment(ctx context.Context, cfg *config.Config, plain bool, stderr io.Writer) (*environment, error) {
	ctx, cancel := context.WithCancel(ctx)
	env := &environment{cfg: cfg, cancel: cancel}
	ok := false
	defer func() {
		if !ok {
			env.Close()
		}
	}()

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, withExitCode(err, exitUsage)
	}
	switch {
	case cfg.LogFile() != "":
		logger, closer, err := logging.Open(cfg.LogFile(), "cli", level)
		if err != nil {
			return nil, err
		}
		env.logger = logger
		env.closers = append(env.closers, func() { closer.Close() })
	case plain:
		env.logger = logging.New(stderr, "cli", level)
	default:
		env.logger = logging.Discard()
	}

	if cfg.Tracing.Enabled {
		var w io.Writer = os.Stdout
		if path := cfg.TraceFile(); path != "" {
			f, err := openTraceFile(path)
			if err != nil {
				return nil, err
			}
			env.closers = append(env.closers, func() { f.Close() })
			w = f
		} else if !plain {
			env.logger.Warn("tracing needs tracing.file in interactive mode; spans are discarded")
			w = io.Discard
		}
		tp, err := telemetry.NewTracerProvider("dirtyfx", version, w)
		if err != nil {
			return nil, err
		}
		env.closers = append(env.closers, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				env.logger.Warn("trace shutdown failed", slog.String("error", err.Error()))
			}
		})
	}

	env.hub = telemetry.NewHub()
	env.closers = append(env.closers, env.hub.Close)
	env.metrics = telemetry.NewMetrics()
	go env.metrics.Consume(ctx, env.hub)

	if addr := cfg.Metrics.Listen; addr != "" {
		bound, err := telemetry.Serve(ctx, addr, env.metrics.Handler(), func(err error) {
			env.logger.Error("metrics server failed", slog.String("error", err.Error()))
		})
		if err != nil {
			return nil, fmt.Errorf("metrics listen %s: %w", addr, err)
		}
		env.logger.Info("serving metrics", slog.String("addr", bound.String()))
	}

	store, err := storage.New(cfg.StoragePath())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorageOpen, "open customer database").
			WithContext("path", cfg.StoragePath()).
			WithRemediation("check storage.path or pass -db")
	}
	env.store = store
	env.closers = append(env.closers, func() { store.Close() })

	ok = true
	return env, nil
}

func openTraceFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create trace directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return f, nil
}

// Close releases everything in reverse order of acquisition.
func (e *environment) Close() {
	if e.cancel != nil {
		e.cancel()
	}
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// resolveCustomer returns id if it exists. An empty id picks the first
// customer, creating a sample one in an empty database.
func (e *environment) resolveCustomer(ctx context.Context, id string) (string, error) {
	if id != "" {
		if _, err := e.store.GetCustomer(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return "", apperrors.Wrap(err, apperrors.ErrCodeNotFound, "unknown customer").
					WithContext("id", id)
			}
			return "", apperrors.Wrap(err, apperrors.ErrCodeStorageRead, "read customer")
		}
		return id, nil
	}

	customers, err := e.store.ListCustomers(ctx)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeStorageRead, "list customers")
	}
	if len(customers) > 0 {
		return customers[0].ID, nil
	}

	sample := &storage.Customer{
		Name:   "Ada Lovelace",
		Email:  "ada@example.com",
		Score:  3.2,
		Visits: 12,
		Points: 1840,
		Active: true,
		Tags:   []string{"founder", "vip"},
	}
	if err := e.store.CreateCustomer(ctx, sample); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeStorageWrite, "create sample customer")
	}
	e.logger.Info("created sample customer", slog.String("id", sample.ID))
	return sample.ID, nil
}
