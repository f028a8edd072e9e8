package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"labelgen/internal/batch"
	"labelgen/internal/config"
	"labelgen/internal/journal"
	"labelgen/internal/logging"
	"labelgen/internal/notifications"
	"labelgen/internal/printer"
)

// errLabelsFailed is returned after the summary when at least one label
// failed in either sink.
var errLabelsFailed = errors.New("labels failed")

type generateOptions struct {
	start     int64
	end       int64
	template  templateFlags
	outputDir string
	driver    string
	dryRun    bool
	quiet     bool
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate, print, and record a range of labels",
		Long: `Generate one ZPL document per number in [start, end], send each to the
configured printer, and write a label_<n>.txt record into the output directory.
Records from earlier runs are removed first.`,
		Example: `  labelgen generate --start 1 --end 50 --template '^XA^FO50,50^FD0001^FS^XZ'
  labelgen generate --start 100 --end 120 -f label.zpl --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("start") || !cmd.Flags().Changed("end") {
				return fmt.Errorf("%w: --start and --end are required", batch.ErrValidation)
			}
			return runGenerate(cmd, ctx, opts)
		},
	}

	cmd.Flags().Int64Var(&opts.start, "start", 0, "First label number")
	cmd.Flags().Int64Var(&opts.end, "end", 0, "Last label number (inclusive, must be greater than --start)")
	opts.template.register(cmd)
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory for label records (default from config)")
	cmd.Flags().StringVar(&opts.driver, "driver", "", "Override printer.driver (cups, device, network, file)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Spool jobs to <output-dir>/.spool instead of printing")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Only print the final summary")
	return cmd
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, opts generateOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	template, err := opts.template.read(cmd)
	if err != nil {
		return err
	}
	outputDir, err := ctx.outputDir(opts.outputDir)
	if err != nil {
		return err
	}
	req := batch.Request{Start: opts.start, End: opts.end, Template: template, OutputDir: outputDir}
	if err := req.Validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	logger, logPath, err := ctx.newRunLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	sink, err := buildPrinter(cfg, outputDir, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", batch.ErrSetup, err)
	}
	if opts.dryRun {
		fmt.Fprintf(out, "Dry run: jobs spooled to %s\n", config.DefaultSpoolDir(outputDir))
	}

	notifier := notifications.NewService(cfg)
	observers := batch.Observers{notifications.NewRunNotifier(notifier, logger)}
	if !opts.quiet {
		observers = append(observers, newProgressObserver(out, req.Count()))
	}
	store := openJournalForRun(ctx, logger)
	if store != nil {
		defer store.Close()
		observers = append(observers, journal.NewRecorder(store, cfg.Journal.KeepRuns, logger))
	}

	runner := batch.NewRunner(sink,
		batch.WithJobName(cfg.Printer.JobName),
		batch.WithLogger(logger),
		batch.WithObserver(observers),
	)
	res, err := runner.Run(cmd.Context(), req)
	if res == nil {
		if errors.Is(err, batch.ErrSetup) {
			label := fmt.Sprintf("labels %d-%d", req.Start, req.End)
			if notifyErr := notifier.NotifyRunFailed(context.WithoutCancel(cmd.Context()), err, label); notifyErr != nil {
				logger.Debug("failure notification not sent", logging.Error(notifyErr))
			}
		}
		return err
	}

	fmt.Fprintln(out, res.Summary())
	logger.Debug("run log written", logging.String("path", logPath))
	if err != nil {
		return err
	}
	if failures := len(res.Failures()); failures > 0 {
		return fmt.Errorf("%w: %d of %d", errLabelsFailed, failures, res.Attempted())
	}
	return nil
}

func buildPrinter(cfg *config.Config, outputDir string, opts generateOptions) (printer.Sink, error) {
	popts := printer.OptionsFromConfig(cfg)
	if opts.driver != "" {
		popts.Driver = opts.driver
	}
	if opts.dryRun {
		popts.Driver = config.DriverFile
		popts.SpoolDir = config.DefaultSpoolDir(outputDir)
	}
	return printer.New(popts)
}

// openJournalForRun opens run history for a generate run. Failures only warn:
// labels are still generated without history.
func openJournalForRun(ctx *commandContext, logger *slog.Logger) *journal.Store {
	store, err := ctx.openJournal()
	if err != nil {
		logging.WarnWithContext(logger, "run journal unavailable", "journal_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.state_dir or set journal.enabled = false"),
			logging.String(logging.FieldImpact, "this run will not appear in history"),
		)
		return nil
	}
	return store
}

// progressObserver prints one status line per label.
type progressObserver struct {
	out      io.Writer
	total    uint64
	done     uint64
	colorize bool
}

func newProgressObserver(out io.Writer, total uint64) *progressObserver {
	return &progressObserver{out: out, total: total, colorize: shouldColorize(out)}
}

func (p *progressObserver) RunStarted(_ context.Context, res *batch.Result) {
	if res.Cleared > 0 {
		fmt.Fprintf(p.out, "Removed %d previous record(s) from %s\n", res.Cleared, res.OutputDir)
	}
	fmt.Fprintf(p.out, "Printing %d labels to %s\n", p.total, res.Printer)
}

func (p *progressObserver) LabelDone(_ context.Context, outcome batch.ItemOutcome) {
	p.done++
	label := fmt.Sprintf("Label %d (%d/%d)", outcome.Label, p.done, p.total)
	kind, message := statusOK, "printed, recorded"
	if outcome.Failed() {
		kind = statusError
		message = outcome.Describe()
	}
	fmt.Fprintln(p.out, renderStatusLine(label, kind, message, p.colorize))
}

func (p *progressObserver) RunFinished(context.Context, *batch.Result) {}
