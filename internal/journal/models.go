package journal

import "time"

// Status is the lifecycle state of a journaled run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusPartial   Status = "completed_with_failures"
	StatusCancelled Status = "cancelled"
)

// Run is one batch run.
type Run struct {
	ID         string
	Start      int64
	End        int64
	OutputDir  string
	Template   string
	Printer    string
	Status     Status
	Cleared    int
	Attempted  int
	Failures   int
	Summary    string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Item is the outcome of one label within a run.
type Item struct {
	RunID       string
	Label       int64
	PrintError  string
	RecordError string
	RecordPath  string
	CreatedAt   time.Time
}

// Failed reports whether either sink failed for the label.
func (i Item) Failed() bool {
	return i.PrintError != "" || i.RecordError != ""
}
