// Package records persists a plain-text copy of every generated label.
//
// Each label number owns exactly one artifact, label_<n>.txt, inside the
// output directory. Clear only ever removes files matching that naming
// convention, so an output directory shared with other files is safe to use.
package records
