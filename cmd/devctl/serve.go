package main

import (
	"context"
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/fxnlabs/device-runtime/internal/server"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func serveCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve device information and metrics over HTTP",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Usage: "Override server.listenPort"},
			&cli.IntFlag{Name: "device", Usage: "Override device.default", Value: -1},
			&cli.BoolFlag{Name: "quiet", Usage: "Skip the startup banner"},
		},
		Action: func(c *cli.Context) error {
			cfg := e.cfg
			if c.IsSet("port") {
				cfg.Server.ListenPort = c.Int("port")
			}
			if c.IsSet("device") {
				cfg.Device.Default = c.Int("device")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if !c.Bool("quiet") {
				figure.NewFigure("devctl", "", true).Print()
				fmt.Fprintf(c.App.Writer, "\nlistening on %s\n", cfg.ListenAddr())
			}

			app := fx.New(
				fx.Supply(cfg, e.log),
				server.Module,
				fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
					return &fxevent.ZapLogger{Logger: l.Named("fx")}
				}),
			)

			startCtx, cancel := context.WithTimeout(c.Context, app.StartTimeout())
			defer cancel()
			if err := app.Start(startCtx); err != nil {
				return err
			}

			select {
			case sig := <-app.Done():
				e.log.Info("shutting down", zap.Stringer("signal", sig))
			case <-c.Context.Done():
				e.log.Info("shutting down", zap.Error(c.Context.Err()))
			}

			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return app.Stop(stopCtx)
		},
	}
}
