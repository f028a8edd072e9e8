// Package main hosts the labelgen CLI entrypoint and command graph.
//
// generate is the primary command: it collects the range, template, and
// output directory into one batch request, wires the configured printer, run
// journal, and notifications around the batch runner, and prints a single
// summary. The remaining commands inspect records, run history, printers, and
// configuration.
package main
