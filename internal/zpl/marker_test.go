package zpl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMarkers(t *testing.T) {
	doc := "^XA^FD12^FS^FO1,1^FDabc^FS^FD7^FS"
	got := Markers(doc)
	want := []Marker{{Offset: 3, Payload: "12"}, {Offset: 26, Payload: "7"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Markers mismatch (-want +got):\n%s", diff)
	}
	if got[1].String() != "^FD7^FS" {
		t.Fatalf("unexpected marker rendering %q", got[1].String())
	}
	if Markers("^XA^XZ") != nil {
		t.Fatal("expected nil markers for unmarked document")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		template string
		want     Form
	}{
		{"^XA^FD0^FS^XZ", FormMarked},
		{"^XA^FDtext^FS^XZ", FormBare},
		{"^XA^XZ", FormUnmarked},
		{"", FormUnmarked},
		{"^FDx^FS^FD1^FS", FormMarked},
	}
	for _, tt := range tests {
		if got := Classify(tt.template); got != tt.want {
			t.Fatalf("Classify(%q) = %s, want %s", tt.template, got, tt.want)
		}
	}
}

func TestClassifyAgreesWithSubstitute(t *testing.T) {
	for _, template := range []string{"^FD1^FS", "^FDx^FS", "plain"} {
		out := Substitute(template, 99)
		switch Classify(template) {
		case FormBare:
			if out != template {
				t.Fatalf("bare template %q changed to %q", template, out)
			}
		case FormUnmarked:
			if out != template+"^FD99^FS" {
				t.Fatalf("unmarked template %q produced %q", template, out)
			}
		case FormMarked:
			if out == template {
				t.Fatalf("marked template %q unchanged", template)
			}
		}
	}
}
