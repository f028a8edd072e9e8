package zpl

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// StartToken opens a field-data command.
	StartToken = "^FD"
	// EndToken closes a field-data command.
	EndToken = "^FS"
)

var markerPattern = regexp.MustCompile(`\^FD([0-9]+)\^FS`)

// Substitute returns template with every numeric field-data marker rewritten to
// carry value. When the template has no start token at all, a new marker is
// appended instead.
//
// A start token that is not followed by digits and an end token (for example
// `^FDSKU-^FS`) still counts as "already marked": nothing is replaced and
// nothing is appended, so the template comes back unchanged.
func Substitute(template string, value int64) string {
	marker := Marker{Payload: strconv.FormatInt(value, 10)}.String()

	// Literal replacement; value never contains '$'.
	updated := markerPattern.ReplaceAllLiteralString(template, marker)
	if hasStartToken(updated) {
		return updated
	}
	return updated + marker
}

// hasStartToken decides whether the append fallback is suppressed. It checks
// for the bare start token, not for a complete digit marker.
func hasStartToken(doc string) bool {
	return strings.Contains(doc, StartToken)
}
