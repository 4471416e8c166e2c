package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/odvcencio/dirtyfx/pkg/config"
	"github.com/odvcencio/dirtyfx/pkg/customer"
	"github.com/odvcencio/dirtyfx/pkg/logging"
	"github.com/odvcencio/dirtyfx/pkg/ui/backend"
	tcellbackend "github.com/odvcencio/dirtyfx/pkg/ui/backend/tcell"
	"github.com/odvcencio/dirtyfx/pkg/ui/runtime"
	"github.com/odvcencio/dirtyfx/pkg/ui/theme"
)

func newTerminalBackend() (backend.Backend, error) {
	be, err := tcellbackend.New()
	if err != nil {
		return nil, err
	}
	return be, nil
}

// runInteractive runs the customer form on be until the user quits or ctx
// is cancelled.
func runInteractive(ctx context.Context, env *environment, id string, be backend.Backend, configPath string) error {
	app := runtime.NewApp(runtime.AppConfig{
		Backend:  be,
		Theme:    theme.DefaultTheme(),
		TickRate: env.cfg.UI.TickRate,
	})

	ctrl := customer.NewController(env.store, id, app, env.logger, env.hub)
	defer ctrl.Close()
	app.SetRoot(ctrl.View())
	app.SetCommandHandler(ctrl.CommandHandler(ctx))

	if configPath != "" {
		watchLogLevel(ctx, configPath, app, env.logger)
	}

	ctrl.Load(ctx, nil)
	err := app.Run(ctx)
	if waitErr := ctrl.Wait(); waitErr != nil {
		env.logger.Warn("background work failed", slog.String("error", waitErr.Error()))
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchLogLevel applies logging.level from the config file whenever it is
// saved. Updates are applied on the UI thread.
func watchLogLevel(ctx context.Context, path string, app *runtime.App, logger *logging.Logger) {
	err := config.Watch(ctx, path, func(cfg *config.Config) {
		level, err := logging.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return
		}
		app.Invoke(func() {
			if logger.Level() != level {
				logger.SetLevel(level)
				logger.Info("log level changed", slog.String("level", level.String()))
			}
		})
	}, func(err error) {
		logger.Warn("config reload failed", slog.String("error", err.Error()))
	})
	if err != nil {
		logger.Warn("config watch disabled", slog.String("error", err.Error()))
	}
}
