package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"labelgen/internal/batch"
	"labelgen/internal/records"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect or remove label record files",
	}
	cmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "", "Directory holding label records (default from config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List label records in the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.outputDir(outputDir)
			if err != nil {
				return err
			}
			artifacts, err := records.New(dir).List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(artifacts) == 0 {
				fmt.Fprintf(out, "No label records in %s\n", dir)
				return nil
			}
			view := tableView{
				headers: []string{"Label", "File", "Size"},
				aligns:  []columnAlignment{alignRight, alignLeft, alignRight},
			}
			var total int64
			for _, a := range artifacts {
				view.add(strconv.FormatInt(a.Label, 10), a.Path, humanize.IBytes(uint64(a.Size)))
				total += a.Size
			}
			view.footer = []string{strconv.Itoa(len(artifacts)), "", humanize.IBytes(uint64(total))}
			fmt.Fprintln(out, view.render(shouldColorize(out)))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove label records from the output directory",
		Long:  "Remove label_<n>.txt files from the output directory. Other files are left alone.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.outputDir(outputDir)
			if err != nil {
				return err
			}
			sink := records.New(dir)
			if err := sink.Ensure(); err != nil {
				return fmt.Errorf("%w: %w", batch.ErrSetup, err)
			}
			lock, err := batch.LockOutputDir(dir)
			if err != nil {
				return err
			}
			defer lock.Unlock()

			removed, err := sink.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d label record(s) from %s\n", removed, dir)
			return nil
		},
	})

	return cmd
}
