package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %s", results[2].Detail)
	}
	if missing := MissingRequired(results); len(missing) != 2 {
		t.Fatalf("expected 2 missing, got %d", len(missing))
	}
}

func TestPrinterRequirements(t *testing.T) {
	tests := []struct {
		driver string
		binary string
		want   int
	}{
		{driver: "cups", want: 2},
		{driver: "cups", binary: "/opt/cups/bin/lp", want: 2},
		{driver: "device", want: 0},
		{driver: "network", want: 0},
		{driver: "file", want: 0},
	}
	for _, tt := range tests {
		reqs := PrinterRequirements(tt.driver, tt.binary)
		if len(reqs) != tt.want {
			t.Fatalf("%s: expected %d requirements, got %d", tt.driver, tt.want, len(reqs))
		}
		if tt.want > 0 {
			want := tt.binary
			if want == "" {
				want = "lp"
			}
			if reqs[0].Command != want || reqs[0].Optional {
				t.Fatalf("%s: unexpected lp requirement %#v", tt.driver, reqs[0])
			}
			if !reqs[1].Optional {
				t.Fatalf("lpstat should be optional")
			}
		}
	}
}

func TestMissingRequiredIgnoresOptional(t *testing.T) {
	statuses := []Status{
		{Name: "a", Available: false, Optional: true},
		{Name: "b", Available: true},
	}
	if missing := MissingRequired(statuses); len(missing) != 0 {
		t.Fatalf("expected none missing, got %#v", missing)
	}
}
