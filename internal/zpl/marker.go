package zpl

import "strings"

// Marker is one `^FD<digits>^FS` occurrence inside a document.
type Marker struct {
	Offset  int
	Payload string
}

func (m Marker) String() string {
	return StartToken + m.Payload + EndToken
}

// Markers lists every numeric field-data marker in doc, in document order.
func Markers(doc string) []Marker {
	matches := markerPattern.FindAllStringSubmatchIndex(doc, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]Marker, 0, len(matches))
	for _, m := range matches {
		out = append(out, Marker{Offset: m[0], Payload: doc[m[2]:m[3]]})
	}
	return out
}

// Form describes how Substitute will treat a template.
type Form int

const (
	// FormUnmarked templates have no start token; a marker gets appended.
	FormUnmarked Form = iota
	// FormMarked templates carry one or more numeric markers that get rewritten.
	FormMarked
	// FormBare templates carry a start token but no numeric marker; they pass
	// through Substitute unchanged.
	FormBare
)

func (f Form) String() string {
	switch f {
	case FormMarked:
		return "marked"
	case FormBare:
		return "bare"
	default:
		return "unmarked"
	}
}

// Classify reports which Substitute branch template will take.
func Classify(template string) Form {
	switch {
	case markerPattern.MatchString(template):
		return FormMarked
	case strings.Contains(template, StartToken):
		return FormBare
	default:
		return FormUnmarked
	}
}
