package zpl

import (
	"strconv"
	"strings"
	"testing"
)

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name     string
		template string
		value    int64
		want     string
	}{
		{
			name:     "single marker",
			template: "^XA^FO50,50^BCN,100^FD0^FS^XZ",
			value:    42,
			want:     "^XA^FO50,50^BCN,100^FD42^FS^XZ",
		},
		{
			name:     "every marker replaced",
			template: "^XA^FD1^FS^FO10,10^FD999^FS^XZ",
			value:    7,
			want:     "^XA^FD7^FS^FO10,10^FD7^FS^XZ",
		},
		{
			name:     "no start token appends marker",
			template: "^XA^FO50,50^XZ",
			value:    5,
			want:     "^XA^FO50,50^XZ^FD5^FS",
		},
		{
			name:     "empty template",
			template: "",
			value:    3,
			want:     "^FD3^FS",
		},
		{
			name:     "bare start token left unchanged",
			template: "^XA^FDSKU-^FS^XZ",
			value:    9,
			want:     "^XA^FDSKU-^FS^XZ",
		},
		{
			name:     "unterminated start token left unchanged",
			template: "^XA^FD12^XZ",
			value:    9,
			want:     "^XA^FD12^XZ",
		},
		{
			name:     "negative value",
			template: "^FD10^FS",
			value:    -4,
			want:     "^FD-4^FS",
		},
		{
			name:     "replacement is literal",
			template: "$1^FD0^FS$2",
			value:    8,
			want:     "$1^FD8^FS$2",
		},
		{
			name:     "mixed bare and numeric markers",
			template: "^FDName^FS^FD0001^FS",
			value:    12,
			want:     "^FDName^FS^FD12^FS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Substitute(tt.template, tt.value); got != tt.want {
				t.Fatalf("Substitute(%q, %d) = %q, want %q", tt.template, tt.value, got, tt.want)
			}
		})
	}
}

func TestSubstituteSingleMarkerKeepsSurroundingText(t *testing.T) {
	prefix := "^XA^FO20,20^A0N,40,40"
	suffix := "^PQ1^XZ"
	template := prefix + "^FD0000^FS" + suffix

	for _, v := range []int64{0, 1, 17, 123456789} {
		got := Substitute(template, v)
		markers := Markers(got)
		if len(markers) != 1 {
			t.Fatalf("value %d: expected 1 marker, got %d in %q", v, len(markers), got)
		}
		if markers[0].Payload != strconv.FormatInt(v, 10) {
			t.Fatalf("value %d: payload %q", v, markers[0].Payload)
		}
		if !strings.HasPrefix(got, prefix) || !strings.HasSuffix(got, suffix) {
			t.Fatalf("value %d: surrounding text changed: %q", v, got)
		}
	}
}

func TestSubstituteMultipleMarkersAllCarryValue(t *testing.T) {
	template := "^FD1^FS-^FD22^FS-^FD333^FS"
	got := Substitute(template, 50)
	markers := Markers(got)
	if len(markers) != 3 {
		t.Fatalf("expected 3 markers, got %d in %q", len(markers), got)
	}
	for _, m := range markers {
		if m.Payload != "50" {
			t.Fatalf("unexpected payload %q in %q", m.Payload, got)
		}
	}
}

func TestSubstituteUnmarkedAppendsExactlyOne(t *testing.T) {
	template := "^XA^CF0,30^FO10,10^XZ"
	got := Substitute(template, 11)
	if got != template+"^FD11^FS" {
		t.Fatalf("unexpected document %q", got)
	}
	if n := strings.Count(got, StartToken); n != 1 {
		t.Fatalf("expected one start token, got %d", n)
	}
}

func TestSubstituteDoesNotMutateTemplate(t *testing.T) {
	template := "^FD5^FS"
	_ = Substitute(template, 6)
	if template != "^FD5^FS" {
		t.Fatalf("template changed: %q", template)
	}
}
