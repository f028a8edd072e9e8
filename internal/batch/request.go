package batch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks user input problems detected before any work starts.
	ErrValidation = errors.New("invalid input")
	// ErrSetup marks output directory problems that abort a run before the
	// first label is generated.
	ErrSetup = errors.New("setup failed")
)

// Request is the immutable input of one run.
type Request struct {
	Start     int64
	End       int64
	Template  string
	OutputDir string
}

// Validate reports the first input problem, wrapped with ErrValidation.
func (r Request) Validate() error {
	if r.End <= r.Start {
		return fmt.Errorf("%w: end point (%d) must be greater than start point (%d)", ErrValidation, r.End, r.Start)
	}
	if strings.TrimSpace(r.Template) == "" {
		return fmt.Errorf("%w: ZPL template cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(r.OutputDir) == "" {
		return fmt.Errorf("%w: output directory cannot be empty", ErrValidation)
	}
	return nil
}

// Count returns the number of labels in the closed range [Start, End], or 0
// for an inverted range.
func (r Request) Count() uint64 {
	if r.End < r.Start {
		return 0
	}
	return uint64(r.End) - uint64(r.Start) + 1
}
