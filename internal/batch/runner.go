package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"labelgen/internal/logging"
	"labelgen/internal/printer"
	"labelgen/internal/records"
	"labelgen/internal/zpl"
)

// DefaultJobName prefixes every print job name.
const DefaultJobName = "ZPL Label"

// RecordSink stores a text copy of each generated document.
type RecordSink interface {
	Ensure() error
	Clear() (int, error)
	Write(label int64, doc string) (string, error)
}

// Phase is the orchestrator state.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseClearing
	PhaseGenerating
	PhaseReporting
)

func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseClearing:
		return "clearing"
	case PhaseGenerating:
		return "generating"
	case PhaseReporting:
		return "reporting"
	default:
		return "idle"
	}
}

// Runner executes batch runs against one print sink.
type Runner struct {
	printer  printer.Sink
	records  func(dir string) RecordSink
	jobName  string
	logger   *slog.Logger
	observer Observer
	now      func() time.Time

	phase atomic.Int32
}

// Option customizes a Runner.
type Option func(*Runner)

// WithRecordSink overrides how the record sink is built for an output directory.
func WithRecordSink(fn func(dir string) RecordSink) Option {
	return func(r *Runner) {
		if fn != nil {
			r.records = fn
		}
	}
}

// WithJobName sets the print job name prefix.
func WithJobName(name string) Option {
	return func(r *Runner) {
		if name != "" {
			r.jobName = name
		}
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithObserver registers run lifecycle callbacks.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner builds a runner printing to p. Records default to label_<n>.txt
// files in the request's output directory.
func NewRunner(p printer.Sink, opts ...Option) *Runner {
	r := &Runner{
		printer: p,
		records: func(dir string) RecordSink { return records.New(dir) },
		jobName: DefaultJobName,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "batch")
	if r.observer == nil {
		r.observer = Observers{}
	}
	return r
}

// Phase reports the current orchestrator state.
func (r *Runner) Phase() Phase {
	return Phase(r.phase.Load())
}

func (r *Runner) setPhase(p Phase) {
	r.phase.Store(int32(p))
}

// Run executes req. Validation and setup failures return a nil Result and an
// error wrapping ErrValidation or ErrSetup; no label is generated in either
// case. Otherwise the Result is always returned. Per-label sink failures are
// reported through Result and do not produce an error. A cancelled context
// stops the run before the next label and returns the partial Result together
// with the context error.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if !r.phase.CompareAndSwap(int32(PhaseIdle), int32(PhaseValidating)) {
		return nil, fmt.Errorf("%w: runner is busy (%s)", ErrSetup, r.Phase())
	}
	defer r.setPhase(PhaseIdle)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if r.printer == nil {
		return nil, fmt.Errorf("%w: no print sink configured", ErrSetup)
	}

	r.setPhase(PhaseClearing)
	sink := r.records(req.OutputDir)
	if err := sink.Ensure(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSetup, err)
	}

	lock, err := LockOutputDir(req.OutputDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logging.WarnWithContext(r.logger, "failed to release output directory lock", "run_lock_release_failed",
				logging.Error(err),
				logging.String("lock", lock.Path()),
				logging.String(logging.FieldImpact, "lock is released when the process exits"),
			)
		}
	}()

	cleared, err := sink.Clear()
	if err != nil {
		return nil, fmt.Errorf("%w: clear previous records: %w", ErrSetup, err)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Start:     req.Start,
		End:       req.End,
		OutputDir: req.OutputDir,
		Template:  req.Template,
		Printer:   printer.Describe(r.printer),
		Cleared:   cleared,
		StartedAt: r.now().UTC(),
	}
	ctx = logging.WithRunID(ctx, result.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_started"),
		logging.Int64("start", req.Start),
		logging.Int64("end", req.End),
		logging.String("output_dir", req.OutputDir),
		logging.String("printer", result.Printer),
		logging.Int("cleared", cleared),
	)
	r.observer.RunStarted(ctx, result)

	r.setPhase(PhaseGenerating)
	var runErr error
	for label := req.Start; ; label++ {
		if err := ctx.Err(); err != nil {
			result.Cancelled = true
			runErr = err
			break
		}
		outcome := r.generate(ctx, sink, req.Template, label)
		result.Items = append(result.Items, outcome)
		r.observer.LabelDone(ctx, outcome)
		if label == req.End {
			break
		}
	}

	r.setPhase(PhaseReporting)
	result.FinishedAt = r.now().UTC()
	failures := len(result.Failures())
	attrs := []logging.Attr{
		logging.Int("attempted", result.Attempted()),
		logging.Int("failures", failures),
		logging.Duration("duration", result.Duration()),
	}
	switch {
	case result.Cancelled:
		logging.WarnWithContext(logger, "batch cancelled", "batch_cancelled", append(attrs,
			logging.String(logging.FieldErrorHint, "re-run the remaining range"),
			logging.String(logging.FieldImpact, "remaining labels were not generated"),
		)...)
	case failures > 0:
		logging.WarnWithContext(logger, "batch completed with failures", "batch_completed_with_failures", append(attrs,
			logging.String(logging.FieldErrorHint, "check printer status and output directory permissions"),
			logging.String(logging.FieldImpact, strconv.Itoa(failures)+" labels need attention"),
		)...)
	default:
		logger.Info("batch completed", logging.Args(append(attrs, logging.String(logging.FieldEventType, "batch_completed"))...)...)
	}
	r.observer.RunFinished(ctx, result)
	return result, runErr
}

// generate produces one label and dispatches it to both sinks. The record is
// written even when printing fails.
func (r *Runner) generate(ctx context.Context, sink RecordSink, template string, label int64) ItemOutcome {
	ctx = logging.WithLabel(ctx, label)
	logger := logging.WithContext(ctx, r.logger)

	doc := zpl.Substitute(template, label)
	outcome := ItemOutcome{Label: label, Document: doc}

	job := printer.Job{Name: r.jobName + " " + strconv.FormatInt(label, 10), Data: []byte(doc)}
	if err := r.printer.Print(ctx, job); err != nil {
		outcome.PrintErr = err
		logging.WarnWithContext(logger, "label print failed", "label_print_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the printer is online and has media"),
			logging.String(logging.FieldImpact, "label not printed; record still written"),
		)
	}

	path, err := sink.Write(label, doc)
	if err != nil {
		outcome.RecordErr = err
		logging.WarnWithContext(logger, "label record write failed", "label_record_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check output directory permissions and free space"),
			logging.String(logging.FieldImpact, "no text record for this label"),
		)
	} else {
		outcome.RecordPath = path
	}

	if !outcome.Failed() {
		logger.Debug("label generated", logging.String("record", path))
	}
	return outcome
}

// IsInputError reports whether err came from request validation.
func IsInputError(err error) bool {
	return errors.Is(err, ErrValidation)
}
