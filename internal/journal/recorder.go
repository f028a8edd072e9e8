package journal

import (
	"context"
	"log/slog"

	"labelgen/internal/batch"
	"labelgen/internal/logging"
)

// Recorder journals batch runs. It implements batch.Observer. Store errors are
// logged as warnings and never interrupt the run. Writes ignore cancellation
// of the run context so a cancelled run is still journaled.
type Recorder struct {
	store  *Store
	keep   int
	logger *slog.Logger
}

// NewRecorder returns an observer that writes to store and prunes to keep runs
// after each run.
func NewRecorder(store *Store, keep int, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, keep: keep, logger: logging.NewComponentLogger(logger, "journal")}
}

func (r *Recorder) RunStarted(ctx context.Context, res *batch.Result) {
	ctx = context.WithoutCancel(ctx)
	err := r.store.BeginRun(ctx, Run{
		ID:        res.RunID,
		Start:     res.Start,
		End:       res.End,
		OutputDir: res.OutputDir,
		Template:  res.Template,
		Printer:   res.Printer,
		Cleared:   res.Cleared,
		StartedAt: res.StartedAt,
	})
	r.warn(ctx, err, "begin run")
}

func (r *Recorder) LabelDone(ctx context.Context, outcome batch.ItemOutcome) {
	ctx = context.WithoutCancel(ctx)
	runID, _ := logging.RunIDFromContext(ctx)
	err := r.store.RecordItem(ctx, Item{
		RunID:       runID,
		Label:       outcome.Label,
		PrintError:  errString(outcome.PrintErr),
		RecordError: errString(outcome.RecordErr),
		RecordPath:  outcome.RecordPath,
	})
	r.warn(ctx, err, "record label")
}

func (r *Recorder) RunFinished(ctx context.Context, res *batch.Result) {
	ctx = context.WithoutCancel(ctx)
	err := r.store.FinishRun(ctx, Run{
		ID:         res.RunID,
		Status:     StatusOf(res),
		Attempted:  res.Attempted(),
		Failures:   len(res.Failures()),
		Summary:    res.Summary(),
		FinishedAt: res.FinishedAt,
	})
	r.warn(ctx, err, "finish run")
	if err != nil || r.keep <= 0 {
		return
	}
	pruned, err := r.store.Prune(ctx, r.keep)
	r.warn(ctx, err, "prune history")
	if pruned > 0 {
		r.logger.Debug("pruned run history", logging.Int("removed", pruned), logging.Int("keep", r.keep))
	}
}

// StatusOf maps a batch result onto a journal status.
func StatusOf(res *batch.Result) Status {
	switch {
	case res.Cancelled:
		return StatusCancelled
	case len(res.Failures()) > 0:
		return StatusPartial
	default:
		return StatusCompleted
	}
}

func (r *Recorder) warn(ctx context.Context, err error, op string) {
	if err == nil {
		return
	}
	logging.WarnWithContext(logging.WithContext(ctx, r.logger), "run journal write failed", "journal_write_failed",
		logging.String("operation", op),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check state_dir permissions or delete the journal database"),
		logging.String(logging.FieldImpact, "run history may be incomplete; labels are unaffected"),
	)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
