package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"labelgen/internal/config"
	"labelgen/internal/journal"
	"labelgen/internal/preflight"
	"labelgen/internal/records"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and printer readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderSectionHeader("Configuration", colorize))
			configNote := ctx.configPath
			if !ctx.configExists {
				configNote += " (not found, using defaults)"
			}
			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, configNote, colorize))
			fmt.Fprintln(out, renderStatusLine("Printer", statusInfo, describeConfiguredPrinter(cfg), colorize))
			fmt.Fprintln(out, renderStatusLine("Encoding", statusInfo, cfg.Printer.Encoding, colorize))
			notify := "disabled"
			if cfg.Notifications.NtfyTopic != "" {
				notify = cfg.Notifications.NtfyTopic
			}
			fmt.Fprintln(out, renderStatusLine("Notifications", statusInfo, notify, colorize))
			fmt.Fprintln(out)

			fmt.Fprintln(out, renderSectionHeader("Readiness", colorize))
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				fmt.Fprintln(out, renderStatusLine(result.Name, passFail(result.Passed), result.Detail, colorize))
			}
			if artifacts, err := records.New(cfg.Paths.OutputDir).List(); err == nil {
				fmt.Fprintln(out, renderStatusLine("Existing records", statusInfo, fmt.Sprintf("%d (removed by the next run)", len(artifacts)), colorize))
			}
			fmt.Fprintln(out)

			writeJournalStatus(cmd.Context(), out, ctx, cfg, colorize)
			return nil
		},
	}
}

func writeJournalStatus(runCtx context.Context, out io.Writer, ctx *commandContext, cfg *config.Config, colorize bool) {
	fmt.Fprintln(out, renderSectionHeader("History", colorize))
	if !cfg.Journal.Enabled {
		fmt.Fprintln(out, renderStatusLine("Journal", statusInfo, "disabled", colorize))
		return
	}
	store, err := ctx.openJournal()
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("Journal", statusError, err.Error(), colorize))
		return
	}
	defer store.Close()
	fmt.Fprintln(out, renderStatusLine("Journal", statusOK, store.Path(), colorize))

	runs, err := store.ListRuns(runCtx, 1)
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("Last run", statusError, err.Error(), colorize))
		return
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, renderStatusLine("Last run", statusInfo, "none", colorize))
		return
	}
	last := runs[0]
	kind := statusOK
	if last.Status != journal.StatusCompleted {
		kind = statusWarn
	}
	msg := fmt.Sprintf("%s labels %d-%d, %s (%s)", shortID(last.ID), last.Start, last.End, last.Status, humanize.RelTime(last.StartedAt, time.Now(), "ago", "from now"))
	fmt.Fprintln(out, renderStatusLine("Last run", kind, msg, colorize))
}
