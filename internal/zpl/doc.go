// Package zpl injects label numbers into ZPL field-data markers.
//
// A marker is the field-data command `^FD<digits>^FS`. Substitute rewrites
// every such marker in a template with the current label number, or appends a
// fresh marker when the template carries no field-data start token at all.
// The package is pure: no I/O, no shared state, and no failure modes.
package zpl
