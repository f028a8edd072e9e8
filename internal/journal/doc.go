// Package journal keeps an audit trail of batch runs in SQLite.
//
// Each run gets one row in runs and one row per attempted label in
// run_items. Generation never reads the journal back; it exists so operators
// can answer "what was printed, when, and what failed" after the fact. Schema
// changes go into a new file under migrations/ and are applied in name order
// on Open.
package journal
