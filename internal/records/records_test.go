package records

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteCreatesHeaderedArtifact(t *testing.T) {
	dir := New(t.TempDir())
	if err := dir.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	path, err := dir.Write(5, "^XA^FD5^FS^XZ")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "label_5.txt" {
		t.Fatalf("unexpected artifact name %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "Label Number: 5\n^XA^FD5^FS^XZ"; got != want {
		t.Fatalf("content mismatch: got %q want %q", got, want)
	}

	doc, err := dir.Read(5)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if doc != "^XA^FD5^FS^XZ" {
		t.Fatalf("unexpected document %q", doc)
	}
}

func TestWriteOverwritesExisting(t *testing.T) {
	dir := New(t.TempDir())
	if _, err := dir.Write(3, "old"); err != nil {
		t.Fatal(err)
	}
	if _, err := dir.Write(3, "new"); err != nil {
		t.Fatal(err)
	}
	doc, err := dir.Read(3)
	if err != nil {
		t.Fatal(err)
	}
	if doc != "new" {
		t.Fatalf("expected overwrite, got %q", doc)
	}
	entries, err := os.ReadDir(dir.Path())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestWriteFailureIsTagged(t *testing.T) {
	dir := New(filepath.Join(t.TempDir(), "missing"))
	_, err := dir.Write(1, "doc")
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
}

func TestClearRemovesOnlyOwnedArtifacts(t *testing.T) {
	root := t.TempDir()
	dir := New(root)
	for _, label := range []int64{-2, 1, 10} {
		if _, err := dir.Write(label, "doc"); err != nil {
			t.Fatal(err)
		}
	}
	keep := []string{"notes.txt", "label_x.txt", "label_1.txt.bak", "LABEL_2.txt", "label_3.zpl"}
	for _, name := range keep {
		if err := os.WriteFile(filepath.Join(root, name), []byte("keep"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(root, "label_4.txt"), 0o755); err != nil {
		t.Fatal(err)
	}

	removed, err := dir.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
	for _, name := range append(keep, "label_4.txt") {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			t.Fatalf("expected %s to survive Clear: %v", name, err)
		}
	}
}

func TestClearIsIdempotent(t *testing.T) {
	dir := New(t.TempDir())
	for i := 0; i < 2; i++ {
		removed, err := dir.Clear()
		if err != nil {
			t.Fatalf("Clear #%d: %v", i+1, err)
		}
		if removed != 0 {
			t.Fatalf("Clear #%d removed %d", i+1, removed)
		}
	}

	missing := New(filepath.Join(t.TempDir(), "does-not-exist"))
	if _, err := missing.Clear(); err != nil {
		t.Fatalf("Clear on missing dir: %v", err)
	}
}

func TestListOrdersByLabel(t *testing.T) {
	dir := New(t.TempDir())
	for _, label := range []int64{10, 2, -1, 9} {
		if _, err := dir.Write(label, "x"); err != nil {
			t.Fatal(err)
		}
	}
	artifacts, err := dir.List()
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{-1, 2, 9, 10}
	if len(artifacts) != len(want) {
		t.Fatalf("expected %d artifacts, got %d", len(want), len(artifacts))
	}
	for i, a := range artifacts {
		if a.Label != want[i] {
			t.Fatalf("artifact %d: got label %d want %d", i, a.Label, want[i])
		}
		if a.Size == 0 {
			t.Fatalf("artifact %d: expected size", i)
		}
	}
}

func TestEnsureRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := New(path).Ensure(); err == nil {
		t.Fatal("expected error for non-directory output path")
	}
}

func TestParseFileName(t *testing.T) {
	tests := []struct {
		name  string
		label int64
		ok    bool
	}{
		{"label_7.txt", 7, true},
		{"label_-3.txt", -3, true},
		{"label_.txt", 0, false},
		{"label_7.txt.tmp", 0, false},
		{"xlabel_7.txt", 0, false},
		{"label_99999999999999999999.txt", 0, false},
	}
	for _, tt := range tests {
		label, ok := ParseFileName(tt.name)
		if ok != tt.ok || label != tt.label {
			t.Fatalf("ParseFileName(%q) = %d, %v; want %d, %v", tt.name, label, ok, tt.label, tt.ok)
		}
		if ok && FileName(label) != tt.name {
			t.Fatalf("FileName(%d) = %q", label, FileName(label))
		}
	}
}
