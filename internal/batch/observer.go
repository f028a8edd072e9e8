package batch

import "context"

// Observer receives run lifecycle callbacks on the runner goroutine. Callbacks
// must not block for long; they run between labels.
type Observer interface {
	RunStarted(ctx context.Context, res *Result)
	LabelDone(ctx context.Context, outcome ItemOutcome)
	RunFinished(ctx context.Context, res *Result)
}

// Observers fans callbacks out in order.
type Observers []Observer

func (o Observers) RunStarted(ctx context.Context, res *Result) {
	for _, obs := range o {
		if obs != nil {
			obs.RunStarted(ctx, res)
		}
	}
}

func (o Observers) LabelDone(ctx context.Context, outcome ItemOutcome) {
	for _, obs := range o {
		if obs != nil {
			obs.LabelDone(ctx, outcome)
		}
	}
}

func (o Observers) RunFinished(ctx context.Context, res *Result) {
	for _, obs := range o {
		if obs != nil {
			obs.RunFinished(ctx, res)
		}
	}
}

// ObserverFuncs adapts optional functions into an Observer.
type ObserverFuncs struct {
	OnRunStarted  func(ctx context.Context, res *Result)
	OnLabelDone   func(ctx context.Context, outcome ItemOutcome)
	OnRunFinished func(ctx context.Context, res *Result)
}

func (f ObserverFuncs) RunStarted(ctx context.Context, res *Result) {
	if f.OnRunStarted != nil {
		f.OnRunStarted(ctx, res)
	}
}

func (f ObserverFuncs) LabelDone(ctx context.Context, outcome ItemOutcome) {
	if f.OnLabelDone != nil {
		f.OnLabelDone(ctx, outcome)
	}
}

func (f ObserverFuncs) RunFinished(ctx context.Context, res *Result) {
	if f.OnRunFinished != nil {
		f.OnRunFinished(ctx, res)
	}
}
