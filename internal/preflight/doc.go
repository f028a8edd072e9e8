// Package preflight provides readiness checks for the output directory and
// the configured printer.
//
// The CLI "labelgen status" command runs RunAll to display readiness. The
// generate command does not gate on these checks; a failing printer is
// reported per label instead.
package preflight
