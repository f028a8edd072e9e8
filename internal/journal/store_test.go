package journal_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"labelgen/internal/journal"
	"labelgen/internal/testsupport"
)

func seedRun(t *testing.T, store *journal.Store, id string, started time.Time) {
	t.Helper()
	err := store.BeginRun(context.Background(), journal.Run{
		ID:        id,
		Start:     5,
		End:       7,
		OutputDir: "/tmp/labels",
		Template:  "^XA^FD1^FS^XZ",
		Printer:   "cups:zebra",
		StartedAt: started,
	})
	if err != nil {
		t.Fatalf("BeginRun %s: %v", id, err)
	}
}

func TestRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedRun(t, store, "run-1", started)

	for _, item := range []journal.Item{
		{RunID: "run-1", Label: 5, RecordPath: "/tmp/labels/label_5.txt"},
		{RunID: "run-1", Label: 6, PrintError: "paper out", RecordPath: "/tmp/labels/label_6.txt"},
		{RunID: "run-1", Label: 7, RecordPath: "/tmp/labels/label_7.txt"},
	} {
		if err := store.RecordItem(ctx, item); err != nil {
			t.Fatalf("RecordItem %d: %v", item.Label, err)
		}
	}

	err := store.FinishRun(ctx, journal.Run{
		ID:         "run-1",
		Status:     journal.StatusPartial,
		Attempted:  3,
		Failures:   1,
		Summary:    "Labels 5 to 7 completed with 1 failure.",
		FinishedAt: started.Add(2 * time.Second),
	})
	if err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	run, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != journal.StatusPartial || run.Attempted != 3 || run.Failures != 1 {
		t.Fatalf("unexpected run: %+v", run)
	}
	if !run.StartedAt.Equal(started) || run.FinishedAt.Sub(run.StartedAt) != 2*time.Second {
		t.Fatalf("unexpected timestamps: %v %v", run.StartedAt, run.FinishedAt)
	}
	if run.Template != "^XA^FD1^FS^XZ" || run.Printer != "cups:zebra" {
		t.Fatalf("unexpected run details: %+v", run)
	}

	items, err := store.Items(ctx, "run-1")
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	want := []journal.Item{
		{RunID: "run-1", Label: 5, RecordPath: "/tmp/labels/label_5.txt"},
		{RunID: "run-1", Label: 6, PrintError: "paper out", RecordPath: "/tmp/labels/label_6.txt"},
		{RunID: "run-1", Label: 7, RecordPath: "/tmp/labels/label_7.txt"},
	}
	ignoreCreated := cmpopts.IgnoreFields(journal.Item{}, "CreatedAt")
	if diff := cmp.Diff(want, items, ignoreCreated); diff != "" {
		t.Fatalf("Items mismatch (-want +got):\n%s", diff)
	}
	if !items[1].Failed() || items[0].Failed() {
		t.Fatalf("unexpected failure flags: %+v", items)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	err := store.FinishRun(context.Background(), journal.Run{ID: "missing", Status: journal.StatusCompleted})
	if !errors.Is(err, journal.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetRunByPrefix(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()
	now := time.Now()
	seedRun(t, store, "abc123", now)
	seedRun(t, store, "abd456", now.Add(time.Second))

	cases := []struct {
		query   string
		wantID  string
		wantErr error
	}{
		{query: "abc", wantID: "abc123"},
		{query: "abd456", wantID: "abd456"},
		{query: "ab", wantErr: journal.ErrAmbiguous},
		{query: "zzz", wantErr: journal.ErrNotFound},
		{query: "a_c", wantErr: journal.ErrNotFound},
		{query: "", wantErr: journal.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			run, err := store.GetRun(ctx, tc.query)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetRun: %v", err)
			}
			if run.ID != tc.wantID {
				t.Fatalf("got %s, want %s", run.ID, tc.wantID)
			}
		})
	}
}

func TestListRunsAndPrune(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		id := fmt.Sprintf("run-%d", i)
		seedRun(t, store, id, base.Add(time.Duration(i)*time.Hour))
		if err := store.RecordItem(ctx, journal.Item{RunID: id, Label: 1}); err != nil {
			t.Fatalf("RecordItem: %v", err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-4" || runs[1].ID != "run-3" {
		t.Fatalf("unexpected order: %+v", runs)
	}

	removed, err := store.Prune(ctx, 3)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	all, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(all) != 3 || all[2].ID != "run-2" {
		t.Fatalf("unexpected runs after prune: %+v", all)
	}
	items, err := store.Items(ctx, "run-0")
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("pruned run items should cascade, got %d", len(items))
	}

	if removed, err := store.Prune(ctx, 0); err != nil || removed != 0 {
		t.Fatalf("Prune(0) = %d, %v", removed, err)
	}
}

func TestListRunsOrdersWithinOneSecond(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC)
	seedRun(t, store, "whole", base)
	seedRun(t, store, "later", base.Add(500*time.Millisecond))
	seedRun(t, store, "latest", base.Add(time.Second+20*time.Millisecond))

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	var got []string
	for _, run := range runs {
		got = append(got, run.ID)
	}
	if diff := cmp.Diff([]string{"latest", "later", "whole"}, got); diff != "" {
		t.Fatalf("run order mismatch (-want +got):\n%s", diff)
	}

	if _, err := store.Prune(ctx, 2); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if _, err := store.GetRun(ctx, "whole"); !errors.Is(err, journal.ErrNotFound) {
		t.Fatalf("oldest run should be pruned, got %v", err)
	}
	if !runs[1].StartedAt.Equal(base.Add(500 * time.Millisecond)) {
		t.Fatalf("started_at round trip = %v", runs[1].StartedAt)
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	seedRun(t, store, "persisted", time.Now())
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenJournal(t, cfg)
	if _, err := reopened.GetRun(context.Background(), "persisted"); err != nil {
		t.Fatalf("GetRun after reopen: %v", err)
	}
	if reopened.Path() != cfg.JournalPath() {
		t.Fatalf("path = %s", reopened.Path())
	}
}
