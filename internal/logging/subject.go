package logging

import "strings"

// formatSubject builds the component/label prefix used in console output,
// e.g. "batch · Label #12".
func formatSubject(component, label string) string {
	component = strings.TrimSpace(component)
	label = strings.TrimSpace(label)
	switch {
	case component != "" && label != "":
		return component + " · Label #" + label
	case label != "":
		return "Label #" + label
	default:
		return component
	}
}
