package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/fxnlabs/device-runtime/internal/config"
	"github.com/fxnlabs/device-runtime/internal/logger"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// env is filled by the app's Before hook and read by command actions.
type env struct {
	home string
	cfg  *config.Config
	log  *zap.Logger
}

func newApp(stdout io.Writer) (*cli.App, *env) {
	e := &env{}

	app := &cli.App{
		Name:   "devctl",
		Usage:  "Inspect and serve the accelerator devices of this build",
		Writer: stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "home",
				Value:       config.GetDefaultConfigHome(),
				Usage:       "Path to the devctl home directory",
				EnvVars:     []string{"DEVCTL_HOME"},
				Destination: &e.home,
			},
			&cli.StringFlag{
				Name:  "verbosity",
				Usage: "Log level, overrides logger.verbosity from the config",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(e.home)
			if errors.Is(err, fs.ErrNotExist) {
				cfg = config.Default()
			} else if err != nil {
				return err
			}
			if c.IsSet("verbosity") {
				cfg.Logger.Verbosity = c.String("verbosity")
			}
			zapLogger, err := logger.New(cfg.Logger.Verbosity, cfg.Logger.Encoding)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(zapLogger)
			e.cfg = cfg
			e.log = zapLogger.Named("cli")
			return nil
		},
		After: func(c *cli.Context) error {
			if e.log != nil {
				_ = e.log.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			initCommand(e),
			backendCommand(e),
			countCommand(e),
			devicesCommand(e),
			currentCommand(e),
			setCommand(e),
			serveCommand(e),
			probeCommand(e),
		},
	}
	return app, e
}

func main() {
	app, e := newApp(os.Stdout)
	if err := app.Run(os.Args); err != nil {
		if e.log != nil {
			e.log.Error("failed to run app", zap.Error(err))
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
