package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"labelgen/internal/journal"
)

var errJournalDisabled = errors.New("run journal is disabled (journal.enabled = false)")

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(ctx, func(store *journal.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderRunTable(runs, time.Now(), shouldColorize(out)))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and its labels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(ctx, func(store *journal.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				items, err := store.Items(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				writeRunDetails(out, run, items, shouldColorize(out))
				return nil
			})
		},
	})

	return cmd
}

func withJournal(ctx *commandContext, fn func(*journal.Store) error) error {
	store, err := ctx.openJournal()
	if err != nil {
		return err
	}
	if store == nil {
		return errJournalDisabled
	}
	defer store.Close()
	return fn(store)
}

func renderRunTable(runs []journal.Run, now time.Time, colorize bool) string {
	view := tableView{
		headers: []string{"Run", "Started", "Range", "Status", "Labels", "Failed", "Printer"},
		aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	}
	for _, run := range runs {
		view.add(
			shortID(run.ID),
			humanize.RelTime(run.StartedAt, now, "ago", "from now"),
			fmt.Sprintf("%d-%d", run.Start, run.End),
			string(run.Status),
			strconv.Itoa(run.Attempted),
			strconv.Itoa(run.Failures),
			run.Printer,
		)
	}
	return view.render(colorize)
}

func writeRunDetails(out io.Writer, run journal.Run, items []journal.Item, colorize bool) {
	fmt.Fprintln(out, renderSectionHeader("Run "+run.ID, colorize))
	fmt.Fprintf(out, "Status:     %s\n", run.Status)
	fmt.Fprintf(out, "Range:      %d to %d\n", run.Start, run.End)
	fmt.Fprintf(out, "Output:     %s\n", run.OutputDir)
	fmt.Fprintf(out, "Printer:    %s\n", run.Printer)
	fmt.Fprintf(out, "Started:    %s\n", run.StartedAt.Local().Format(time.DateTime))
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(out, "Finished:   %s (%s)\n", run.FinishedAt.Local().Format(time.DateTime), run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
	fmt.Fprintf(out, "Cleared:    %d previous record(s)\n", run.Cleared)
	if run.Summary != "" {
		fmt.Fprintf(out, "Summary:    %s\n", strings.ReplaceAll(run.Summary, "\n", "\n            "))
	}
	if len(items) == 0 {
		return
	}
	view := tableView{
		headers: []string{"Label", "Print", "Record", "Path"},
		aligns:  []columnAlignment{alignRight},
	}
	for _, item := range items {
		view.add(strconv.FormatInt(item.Label, 10), outcomeText(item.PrintError), outcomeText(item.RecordError), item.RecordPath)
	}
	fmt.Fprintln(out, view.render(colorize))
}

func outcomeText(errText string) string {
	if errText == "" {
		return "ok"
	}
	return "failed: " + errText
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
