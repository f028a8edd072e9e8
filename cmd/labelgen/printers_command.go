package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"labelgen/internal/config"
	"labelgen/internal/logging"
	"labelgen/internal/printer"
)

func newPrintersCommand(ctx *commandContext) *cobra.Command {
	var glob string

	cmd := &cobra.Command{
		Use:   "printers",
		Short: "Discover USB label printers",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List USB printer device nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			devices, err := printer.Discover(glob)
			if err != nil {
				return fmt.Errorf("discover printers: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(devices) == 0 {
				fmt.Fprintln(out, "No USB printer devices found")
			} else {
				view := tableView{headers: []string{"Device", "Writable", "Configured"}}
				for _, d := range devices {
					configured := cfg.Printer.Driver == config.DriverDevice && cfg.Printer.Device == d.Path
					view.add(d.Path, yesNo(d.Writable), yesNo(configured))
				}
				fmt.Fprintln(out, view.render(shouldColorize(out)))
			}
			fmt.Fprintf(out, "Configured printer: %s\n", describeConfiguredPrinter(cfg))
			return nil
		},
	}
	listCmd.Flags().StringVar(&glob, "glob", printer.DefaultDeviceGlob, "Device node pattern")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Report USB printers as they are plugged in or removed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg, "", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, "Watching for USB printers (Ctrl+C to stop)")
			return printer.NewWatcher(logger).Watch(cmd.Context(), func(ev printer.HotplugEvent) {
				kind := statusOK
				if ev.Action == "remove" {
					kind = statusWarn
				}
				stamp := time.Now().Format(time.TimeOnly)
				fmt.Fprintln(out, renderStatusLine(stamp+" "+ev.Action, kind, ev.Device, colorize))
			})
		},
	})

	return cmd
}

func describeConfiguredPrinter(cfg *config.Config) string {
	p := cfg.Printer
	switch p.Driver {
	case config.DriverCUPS:
		if p.Queue == "" {
			return "cups (system default queue)"
		}
		return "cups queue " + p.Queue
	case config.DriverDevice:
		return "device " + p.Device
	case config.DriverNetwork:
		return "network " + p.Address
	case config.DriverFile:
		return "file spool " + p.SpoolDir
	default:
		return p.Driver
	}
}
