package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"labelgen/internal/batch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "labelgen:", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps command errors onto process exit codes: 2 for bad input,
// 1 for everything else including runs with failed labels.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, batch.ErrValidation), errors.Is(err, errUsage):
		return 2
	default:
		return 1
	}
}
