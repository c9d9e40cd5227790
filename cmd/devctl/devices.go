package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fxnlabs/device-runtime/internal/device"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

func backendCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "backend",
		Usage: "Show the device backend compiled into this binary",
		Action: func(c *cli.Context) error {
			mgr := device.NewManager(e.log)
			fmt.Fprintf(c.App.Writer, "backend: %s\nmodel:   %s\ngpu:     %t\n",
				mgr.GetBackendType(), mgr.Backend().Model(), mgr.IsGPUAvailable())
			return nil
		},
	}
}

func countCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "count",
		Usage: "Print the number of accelerator devices",
		Action: func(c *cli.Context) error {
			n, err := device.NewManager(e.log).DeviceCount()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, n)
			return nil
		},
	}
}

func devicesCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:    "devices",
		Aliases: []string{"list"},
		Usage:   "List accelerator devices",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print the device snapshot as JSON"},
		},
		Action: func(c *cli.Context) error {
			info, err := device.NewManager(e.log).Info()
			if err != nil {
				return err
			}
			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			var data [][]string
			for _, d := range info.Devices {
				current := ""
				if d.ID == info.CurrentDevice {
					current = "*"
				}
				data = append(data, []string{
					current + strconv.Itoa(d.ID),
					d.Name,
					d.Type.String(),
					humanize.IBytes(d.TotalMemory),
					d.ComputeCapability,
					d.Platform,
				})
			}

			table := tablewriter.NewWriter(c.App.Writer)
			table.SetHeader([]string{"ID", "NAME", "TYPE", "MEMORY", "COMPUTE", "PLATFORM"})
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderLine(false)
			table.SetBorder(false)
			table.SetNoWhiteSpace(true)
			table.SetTablePadding("    ")
			table.AppendBulk(data)
			table.Render()
			return nil
		},
	}
}

func currentCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "current",
		Usage: "Print the current device of this process",
		Action: func(c *cli.Context) error {
			id, err := device.NewManager(e.log).GetDevice()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, id)
			return nil
		},
	}
}

func setCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Make a device current and read it back",
		ArgsUsage: "<device-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("set takes exactly one device id")
			}
			id, err := strconv.Atoi(c.Args().First())
			if err != nil || id < 0 {
				return fmt.Errorf("invalid device id %q", c.Args().First())
			}
			mgr := device.NewManager(e.log)
			if err := mgr.SetDevice(id); err != nil {
				return err
			}
			got, err := mgr.GetDevice()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, got)
			return nil
		},
	}
}
