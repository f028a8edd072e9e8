// Package batch drives one label generation run.
//
// A run validates its Request, prepares the output directory (create, lock,
// clear owned artifacts), then walks the label range in ascending order. Each
// label number is substituted into the template and the resulting document is
// handed to the print sink and then the record sink. A failing sink never
// stops the run: failures are collected per label and surfaced in the Result
// summary. Only validation and setup problems abort a run, and both happen
// before the first label is generated.
//
// Runs are strictly sequential. The output directory lock is held from the
// clearing step until the last label is written so a concurrent run cannot
// clear records that are still being produced.
package batch
