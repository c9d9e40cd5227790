package main

import (
	"fmt"

	"github.com/fxnlabs/device-runtime/pkg/devclient"
	"github.com/urfave/cli/v2"
)

func probeCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "probe",
		Usage: "Query a running devctl server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Usage: "Server base URL (defaults to the configured listen address)"},
		},
		Action: func(c *cli.Context) error {
			url := c.String("url")
			if url == "" {
				url = "http://" + e.cfg.ListenAddr()
			}
			client := devclient.NewClient(url, nil)

			if err := client.Health(c.Context); err != nil {
				return fmt.Errorf("server at %s is not healthy: %w", url, err)
			}
			info, err := client.Devices(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "server:  %s\nbackend: %s (%s)\ndevices: %d\ncurrent: %d\n",
				url, info.Backend, info.Model, info.DeviceCount, info.CurrentDevice)
			return nil
		},
	}
}
