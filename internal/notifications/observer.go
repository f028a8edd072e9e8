package notifications

import (
	"context"
	"log/slog"

	"labelgen/internal/batch"
	"labelgen/internal/logging"
)

// RunNotifier sends one notification when a batch run finishes. It
// implements batch.Observer and ignores per-label callbacks.
type RunNotifier struct {
	service Service
	logger  *slog.Logger
}

// NewRunNotifier wraps service as a batch observer.
func NewRunNotifier(service Service, logger *slog.Logger) *RunNotifier {
	return &RunNotifier{service: service, logger: logging.NewComponentLogger(logger, "notifications")}
}

func (n *RunNotifier) RunStarted(context.Context, *batch.Result) {}

func (n *RunNotifier) LabelDone(context.Context, batch.ItemOutcome) {}

func (n *RunNotifier) RunFinished(ctx context.Context, res *batch.Result) {
	ctx = context.WithoutCancel(ctx)
	err := n.service.NotifyRunCompleted(ctx, SummaryOf(res))
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, n.logger), "run notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic and network access"),
			logging.String(logging.FieldImpact, "no push notification for this run"),
		)
	}
}

// SummaryOf converts a batch result into notification content.
func SummaryOf(res *batch.Result) RunSummary {
	return RunSummary{
		Start:     res.Start,
		End:       res.End,
		Attempted: res.Attempted(),
		Failures:  len(res.Failures()),
		Cancelled: res.Cancelled,
		Duration:  res.Duration(),
		Printer:   res.Printer,
	}
}
