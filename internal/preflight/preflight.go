package preflight

import (
	"context"

	"golang.org/x/sync/errgroup"

	"labelgen/internal/config"
	"labelgen/internal/printer"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that matter for a generate run with cfg. Checks
// run concurrently; results keep the order the checks were declared in.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	checks := []func(context.Context) Result{
		func(context.Context) Result {
			return CheckOutputDirectory("Output directory", cfg.Paths.OutputDir)
		},
	}
	if cfg.Journal.Enabled {
		checks = append(checks, func(context.Context) Result {
			return CheckOutputDirectory("State directory", cfg.Paths.StateDir)
		})
	}
	opts := printer.OptionsFromConfig(cfg)
	checks = append(checks, func(ctx context.Context) Result {
		return CheckPrinter(ctx, opts)
	})

	results := make([]Result, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		g.Go(func() error {
			results[i] = check(gctx)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
