package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"labelgen/internal/printer"
	"labelgen/internal/records"
)

type fakePrinter struct {
	mu     sync.Mutex
	jobs   []printer.Job
	failOn map[string]error
	onJob  func(printer.Job)
}

func (f *fakePrinter) Print(_ context.Context, job printer.Job) error {
	f.mu.Lock()
	f.jobs = append(f.jobs, job)
	hook := f.onJob
	f.mu.Unlock()
	if hook != nil {
		hook(job)
	}
	if err, ok := f.failOn[job.Name]; ok {
		return err
	}
	return nil
}

func (f *fakePrinter) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, j.Name)
	}
	return out
}

type countingRecords struct {
	*records.Dir
	writes int
}

func (c *countingRecords) Write(label int64, doc string) (string, error) {
	c.writes++
	return c.Dir.Write(label, doc)
}

func TestRunGeneratesEveryLabel(t *testing.T) {
	dir := t.TempDir()
	p := &fakePrinter{}
	runner := NewRunner(p)

	res, err := runner.Run(context.Background(), Request{Start: 5, End: 7, Template: "^XA^FD0001^FS^XZ", OutputDir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Completed() {
		t.Fatalf("expected completed run, got %+v", res)
	}
	if res.RunID == "" {
		t.Fatal("expected run id")
	}
	wantJobs := []string{"ZPL Label 5", "ZPL Label 6", "ZPL Label 7"}
	if got := p.names(); strings.Join(got, ",") != strings.Join(wantJobs, ",") {
		t.Fatalf("jobs = %v, want %v", got, wantJobs)
	}
	for i, label := range []int64{5, 6, 7} {
		want := "^XA^FD" + []string{"5", "6", "7"}[i] + "^FS^XZ"
		if string(p.jobs[i].Data) != want {
			t.Fatalf("job %d data = %q, want %q", i, p.jobs[i].Data, want)
		}
		data, err := os.ReadFile(filepath.Join(dir, records.FileName(label)))
		if err != nil {
			t.Fatalf("read record %d: %v", label, err)
		}
		if string(data) != records.Render(label, want) {
			t.Fatalf("record %d = %q", label, data)
		}
	}
	if got := res.Summary(); got != "Labels generated and printed from 5 to 7." {
		t.Fatalf("summary = %q", got)
	}
	if runner.Phase() != PhaseIdle {
		t.Fatalf("phase = %s after run", runner.Phase())
	}
}

func TestRunPrintFailureDoesNotStopRecords(t *testing.T) {
	dir := t.TempDir()
	printErr := errors.New("paper out")
	p := &fakePrinter{failOn: map[string]error{"ZPL Label 6": printErr}}

	res, err := NewRunner(p).Run(context.Background(), Request{Start: 5, End: 7, Template: "^XA^FD1^FS^XZ", OutputDir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(p.jobs) != 3 {
		t.Fatalf("expected 3 print attempts, got %d", len(p.jobs))
	}
	for _, label := range []int64{5, 6, 7} {
		if _, err := os.Stat(filepath.Join(dir, records.FileName(label))); err != nil {
			t.Fatalf("record %d missing: %v", label, err)
		}
	}
	failures := res.Failures()
	if len(failures) != 1 || failures[0].Label != 6 {
		t.Fatalf("failures = %+v", failures)
	}
	if !errors.Is(failures[0].PrintErr, printErr) || failures[0].RecordErr != nil {
		t.Fatalf("unexpected outcome %+v", failures[0])
	}
	if res.Completed() {
		t.Fatal("run with a failure must not report completed")
	}
	summary := res.Summary()
	if !strings.Contains(summary, "completed with 1 failure.") || !strings.Contains(summary, "label 6: print failed (paper out); record ok") {
		t.Fatalf("summary = %q", summary)
	}
}

func TestRunRecordFailureIsolated(t *testing.T) {
	dir := t.TempDir()
	p := &fakePrinter{}
	recordErr := errors.New("disk full")
	sink := &stubRecords{failOn: 6, err: recordErr}
	runner := NewRunner(p, WithRecordSink(func(string) RecordSink { return sink }))

	res, err := runner.Run(context.Background(), Request{Start: 5, End: 7, Template: "^FD1^FS", OutputDir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(p.jobs) != 3 || sink.writes != 3 {
		t.Fatalf("jobs=%d writes=%d", len(p.jobs), sink.writes)
	}
	failures := res.Failures()
	if len(failures) != 1 || !errors.Is(failures[0].RecordErr, recordErr) {
		t.Fatalf("failures = %+v", failures)
	}
}

func TestRunRejectsInvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		msg  string
	}{
		{name: "equal bounds", req: Request{Start: 10, End: 10, Template: "^FD1^FS", OutputDir: "x"}, msg: "must be greater than start"},
		{name: "inverted", req: Request{Start: 10, End: 5, Template: "^FD1^FS", OutputDir: "x"}, msg: "must be greater than start"},
		{name: "empty template", req: Request{Start: 1, End: 2, Template: "  \n", OutputDir: "x"}, msg: "template cannot be empty"},
		{name: "empty output", req: Request{Start: 1, End: 2, Template: "^FD1^FS", OutputDir: ""}, msg: "output directory cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePrinter{}
			sinkBuilt := false
			runner := NewRunner(p, WithRecordSink(func(string) RecordSink {
				sinkBuilt = true
				return &stubRecords{}
			}))
			res, err := runner.Run(context.Background(), tt.req)
			if !errors.Is(err, ErrValidation) || !IsInputError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("error %q missing %q", err, tt.msg)
			}
			if res != nil || len(p.jobs) != 0 || sinkBuilt {
				t.Fatalf("invalid request must not dispatch: res=%v jobs=%d sink=%v", res, len(p.jobs), sinkBuilt)
			}
		})
	}
}

func TestRunClearsStaleArtifacts(t *testing.T) {
	dir := t.TempDir()
	stale := records.New(dir)
	if _, err := stale.Write(99, "^FD99^FS"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	keep := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(keep, []byte("mine"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(&fakePrinter{}).Run(context.Background(), Request{Start: 1, End: 2, Template: "^XA^XZ", OutputDir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Cleared != 1 {
		t.Fatalf("cleared = %d, want 1", res.Cleared)
	}
	if _, err := os.Stat(filepath.Join(dir, records.FileName(99))); !os.IsNotExist(err) {
		t.Fatalf("stale artifact still present: %v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("foreign file removed: %v", err)
	}
	doc, err := stale.Read(2)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if doc != "^XA^XZ^FD2^FS" {
		t.Fatalf("appended doc = %q", doc)
	}
}

func TestRunFailsWhenDirectoryLocked(t *testing.T) {
	dir := t.TempDir()
	held := flock.New(filepath.Join(dir, LockFileName))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("pre-lock: ok=%v err=%v", ok, err)
	}
	t.Cleanup(func() { _ = held.Unlock() })

	stale := records.New(dir)
	if _, err := stale.Write(1, "old"); err != nil {
		t.Fatal(err)
	}

	p := &fakePrinter{}
	res, err := NewRunner(p).Run(context.Background(), Request{Start: 1, End: 3, Template: "^FD0^FS", OutputDir: dir})
	if !errors.Is(err, ErrSetup) {
		t.Fatalf("expected setup error, got %v", err)
	}
	if res != nil || len(p.jobs) != 0 {
		t.Fatal("locked directory must not generate")
	}
	if _, err := stale.Read(1); err != nil {
		t.Fatalf("locked run must not clear: %v", err)
	}
}

func TestRunSetupFailureOnFileOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	p := &fakePrinter{}
	_, err := NewRunner(p).Run(context.Background(), Request{Start: 1, End: 2, Template: "^FD0^FS", OutputDir: file})
	if !errors.Is(err, ErrSetup) {
		t.Fatalf("expected setup error, got %v", err)
	}
	if len(p.jobs) != 0 {
		t.Fatal("setup failure must not print")
	}
}

func TestRunCancellationStopsBeforeNextLabel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := &fakePrinter{onJob: func(job printer.Job) {
		if job.Name == "ZPL Label 2" {
			cancel()
		}
	}}

	res, err := NewRunner(p).Run(ctx, Request{Start: 1, End: 5, Template: "^FD0^FS", OutputDir: dir})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res == nil || !res.Cancelled {
		t.Fatalf("expected cancelled result, got %+v", res)
	}
	if res.Attempted() != 2 {
		t.Fatalf("attempted = %d, want 2", res.Attempted())
	}
	if _, err := os.Stat(filepath.Join(dir, records.FileName(2))); err != nil {
		t.Fatalf("in-flight label should finish its record: %v", err)
	}
	next, ok := res.NextLabel()
	if !ok || next != 3 {
		t.Fatalf("next = %d, %v", next, ok)
	}
	if want := "Run cancelled after 2 of 5 labels; labels 3 to 5 were not attempted."; res.Summary() != want {
		t.Fatalf("summary = %q", res.Summary())
	}
}

func TestRunRejectsConcurrentRunOnSameRunner(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	p := &fakePrinter{onJob: func(printer.Job) {
		once.Do(func() {
			close(started)
			<-release
		})
	}}
	runner := NewRunner(p)

	done := make(chan error, 1)
	go func() {
		_, err := runner.Run(context.Background(), Request{Start: 1, End: 2, Template: "^FD0^FS", OutputDir: t.TempDir()})
		done <- err
	}()
	<-started

	_, err := runner.Run(context.Background(), Request{Start: 1, End: 2, Template: "^FD0^FS", OutputDir: t.TempDir()})
	close(release)
	if !errors.Is(err, ErrSetup) || !strings.Contains(err.Error(), "runner is busy") {
		t.Fatalf("expected busy ErrSetup, got %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("first run: %v", err)
	}
	if runner.Phase() != PhaseIdle {
		t.Fatalf("phase = %s after run", runner.Phase())
	}
}

func TestRunObserverSeesLifecycle(t *testing.T) {
	dir := t.TempDir()
	var events []string
	obs := ObserverFuncs{
		OnRunStarted:  func(context.Context, *Result) { events = append(events, "start") },
		OnLabelDone:   func(_ context.Context, o ItemOutcome) { events = append(events, "label") },
		OnRunFinished: func(_ context.Context, r *Result) { events = append(events, "finish") },
	}
	runner := NewRunner(&fakePrinter{}, WithObserver(Observers{obs, nil}), WithJobName("Tag"))
	if _, err := runner.Run(context.Background(), Request{Start: -1, End: 1, Template: "^FD7^FS", OutputDir: dir}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Join(events, ","); got != "start,label,label,label,finish" {
		t.Fatalf("events = %s", got)
	}
}

func TestRunCountingRecordsWritesOncePerLabel(t *testing.T) {
	dir := t.TempDir()
	sink := &countingRecords{Dir: records.New(dir)}
	runner := NewRunner(&fakePrinter{}, WithRecordSink(func(string) RecordSink { return sink }))
	if _, err := runner.Run(context.Background(), Request{Start: 100, End: 104, Template: "^FD1^FS^FD2^FS", OutputDir: dir}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sink.writes != 5 {
		t.Fatalf("writes = %d, want 5", sink.writes)
	}
	doc, err := sink.Read(103)
	if err != nil {
		t.Fatal(err)
	}
	if doc != "^FD103^FS^FD103^FS" {
		t.Fatalf("doc = %q", doc)
	}
}

type stubRecords struct {
	failOn int64
	err    error
	writes int
}

func (s *stubRecords) Ensure() error       { return nil }
func (s *stubRecords) Clear() (int, error) { return 0, nil }
func (s *stubRecords) Write(label int64, _ string) (string, error) {
	s.writes++
	if s.err != nil && label == s.failOn {
		return "", s.err
	}
	return "mem://" + records.FileName(label), nil
}
