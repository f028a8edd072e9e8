package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultLPBinary is the CUPS submission command.
const DefaultLPBinary = "lp"

// CUPS submits raw jobs through the CUPS `lp` command. An empty Queue sends
// to the system default destination.
type CUPS struct {
	Queue   string
	Binary  string
	Timeout time.Duration
}

// Args returns the lp argument list for a job.
func (c *CUPS) Args(job Job) []string {
	args := make([]string, 0, 7)
	if q := strings.TrimSpace(c.Queue); q != "" {
		args = append(args, "-d", q)
	}
	args = append(args, "-o", "raw")
	if name := strings.TrimSpace(job.Name); name != "" {
		args = append(args, "-t", name)
	}
	return append(args, "-")
}

func (c *CUPS) Print(ctx context.Context, job Job) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.binary(), c.Args(job)...)
	cmd.Stdin = bytes.NewReader(job.Data)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return deviceError(job, "lp", fmt.Errorf("timed out after %s", c.Timeout))
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return deviceError(job, "lp", fmt.Errorf("%w: %s", err, msg))
		}
		return deviceError(job, "lp", err)
	}
	return nil
}

func (c *CUPS) Describe() string {
	if q := strings.TrimSpace(c.Queue); q != "" {
		return "cups:" + q
	}
	return "cups:default"
}

func (c *CUPS) binary() string {
	if b := strings.TrimSpace(c.Binary); b != "" {
		return b
	}
	return DefaultLPBinary
}
