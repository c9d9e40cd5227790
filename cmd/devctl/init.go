package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxnlabs/device-runtime/fixtures"
	"github.com/fxnlabs/device-runtime/internal/config"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func initCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a default config file to the devctl home",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing config file"},
		},
		Action: func(c *cli.Context) error {
			if err := os.MkdirAll(e.home, 0o700); err != nil {
				return err
			}
			path := filepath.Join(e.home, config.ConfigFileName)
			if _, err := os.Stat(path); err == nil && !c.Bool("force") {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.WriteFile(path, fixtures.ConfigTemplate, 0o600); err != nil {
				return err
			}
			e.log.Info("config written", zap.String("path", path))
			fmt.Fprintln(c.App.Writer, path)
			return nil
		},
	}
}
